// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package concurrent provides common functionality for dealing with concurrency that extends
or enhances the core golang packages.
*/
package concurrent
