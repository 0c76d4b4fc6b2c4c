// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package xviper provides customizations on use of viper for configuration loading.

Commands build their viper instance from a chain of Option functions, typically StdOptions followed
by defaults and an optional configuration file named on the command line.
*/
package xviper
