package save

// Result reports the outcome of applying a Changes bundle. Success is true
// iff no writer reported an error; a partial save (some files written, some
// failed) has Success false but still lists what was modified.
type Result struct {
	Success       bool
	BackupPath    string
	FilesModified []string
	Errors        []*Error
}
