// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package semaphore provides channel-based counting semaphores and the Handle lifecycle
contract shared by the in-process and kernel-visible semaphore variants.

A semaphore in this package holds tokens.  Acquiring takes a token, blocking while none are
available, and releasing puts one back.  Because the initial token count may be zero, a
semaphore can serve as a starting gate that holds every acquirer until some other party
performs the first release.
*/
package semaphore
