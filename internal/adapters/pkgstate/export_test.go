package pkgstate

// SetReadFile replaces the file reader.
func (r *Reader) SetReadFile(readFile func(string) ([]byte, error)) {
	r.readFile = readFile
}

// SetInstallDir replaces the Windows install directory lookup.
func (r *Reader) SetInstallDir(installDir func() (string, bool)) {
	r.installDir = installDir
}
