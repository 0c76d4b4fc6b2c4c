// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package xmetrics provides a small Prometheus registry that also acts as a go-kit metrics provider.
The more general go-kit interfaces are used where possible, so instrumented code never depends on
Prometheus directly.
*/
package xmetrics
