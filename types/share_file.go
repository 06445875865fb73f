package types

import "strings"

// ShareFile is one validated shareable file from the decoded argument payload.
// Immutable after construction by the payload decoder.
type ShareFile struct {
	ID        string
	Name      string
	Directory string
}

// Extension returns the substring after the last dot in Name, or "" when the
// name carries no extension.
func (f ShareFile) Extension() string {
	idx := strings.LastIndex(f.Name, ".")
	if idx < 0 || idx == len(f.Name)-1 {
		return ""
	}
	return f.Name[idx+1:]
}

// FullPath composes the on-disk path for the file: directory, separator, id
// and extension. The separator follows the style of the Directory value, so a
// payload produced on Windows composes a Windows path even when the helper
// runs elsewhere.
func (f ShareFile) FullPath() string {
	sep := "/"
	if strings.Contains(f.Directory, "\\") || isDrivePath(f.Directory) {
		sep = "\\"
	}
	dir := strings.TrimRight(f.Directory, sep)
	ext := f.Extension()
	if ext == "" {
		return dir + sep + f.ID
	}
	return dir + sep + f.ID + "." + ext
}

// isDrivePath reports whether s starts with a Windows drive letter like "C:".
func isDrivePath(s string) bool {
	if len(s) < 2 || s[1] != ':' {
		return false
	}
	c := s[0]
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
