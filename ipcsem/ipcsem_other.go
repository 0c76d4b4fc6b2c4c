//go:build !linux || !(amd64 || arm64)

package ipcsem

func semget(Key) (int, error) {
	return -1, ErrUnsupported
}

func semsetval(int, int) error {
	return ErrUnsupported
}

func semgetval(int) (int, error) {
	return 0, ErrUnsupported
}

func semgetncnt(int) (int, error) {
	return 0, ErrUnsupported
}

func semrm(int) error {
	return ErrUnsupported
}

func semop(int, int16, bool) error {
	return ErrUnsupported
}
