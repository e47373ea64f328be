//go:build !unix

package toolchain

func executable(path string) bool {
	return Exists(path)
}
