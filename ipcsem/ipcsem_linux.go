//go:build linux && (amd64 || arm64)

package ipcsem

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// semctl commands and semop flags from <linux/sem.h>
const (
	cmdGetNcnt = 14
	cmdGetVal  = 12
	cmdSetVal  = 16

	flagUndo = 0x1000
)

// sembuf mirrors struct sembuf
type sembuf struct {
	num uint16
	op  int16
	flg int16
}

func semget(key Key) (int, error) {
	id, _, errno := unix.Syscall(unix.SYS_SEMGET, uintptr(uint32(key)), 1, uintptr(unix.IPC_CREAT|0666))
	if errno != 0 {
		return -1, errno
	}

	return int(id), nil
}

func semctl(id, cmd int, arg uintptr) (int, error) {
	r, _, errno := unix.Syscall6(unix.SYS_SEMCTL, uintptr(id), 0, uintptr(cmd), arg, 0, 0)
	if errno != 0 {
		return -1, errno
	}

	return int(r), nil
}

func semsetval(id, v int) error {
	_, err := semctl(id, cmdSetVal, uintptr(v))
	return err
}

func semgetval(id int) (int, error) {
	return semctl(id, cmdGetVal, 0)
}

func semgetncnt(id int) (int, error) {
	return semctl(id, cmdGetNcnt, 0)
}

func semrm(id int) error {
	_, err := semctl(id, unix.IPC_RMID, 0)
	return err
}

// semop applies a single adjustment, retrying when a signal interrupts the wait.  The Go runtime
// delivers signals to its threads routinely, so EINTR is expected on long waits.
func semop(id int, delta int16, undo bool) error {
	op := sembuf{op: delta}
	if undo {
		op.flg = flagUndo
	}

	for {
		_, _, errno := unix.Syscall(unix.SYS_SEMOP, uintptr(id), uintptr(unsafe.Pointer(&op)), 1)
		switch errno {
		case 0:
			return nil
		case unix.EINTR:
			continue
		default:
			return errno
		}
	}
}
