// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package ipcsem exposes a kernel-visible System V semaphore as a semaphore.Handle.

Unrelated processes reach the same semaphore through a shared Key.  Acquire and Release may register
an undo adjustment with the kernel (SEM_UNDO); if the process exits for any reason before applying
the matching adjustment itself, the kernel reverts it, so a peer blocked on the semaphore is not
stranded by a crashed holder.

The semaphore persists at its key until Destroy is called, including across crashed runs.  Callers
that initialize with SetValue overwrite whatever count a previous run left behind.

Only linux on amd64 and arm64 is supported.  Elsewhere, Create returns ErrUnsupported.
*/
package ipcsem
