// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package processcoord runs two peer processes that print fixed letter strings to a shared standard
output under mutual exclusion provided by a kernel semaphore.

The parent creates the semaphore, sets its count to 1, and duplicates itself by re-executing the
current binary with the peer identity in the environment.  Each peer then prints every letter of its
string twice inside one acquire/release bracket, pausing a jittered amount inside and outside the
bracket.  Both halves of every bracket register an undo adjustment, so a peer that dies while holding
the semaphore does not strand the other.

Every primitive failure is fatal to the context that hit it, and ExitCode maps the failure to a
status that identifies the failing operation.
*/
package processcoord
