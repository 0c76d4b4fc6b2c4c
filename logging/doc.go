// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package logging builds the zap loggers used by the semdemo commands.

Logs go to stderr unless a file is configured.  Standard output belongs to the coordinated peers and
never carries log output.
*/
package logging
