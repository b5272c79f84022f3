package validator

import (
	"fmt"
	"path/filepath"
	"strings"
)

// knownExtensions is the reference table used to spot suffixes appended
// after an extension ("file.txt_backup" instead of "file_backup.txt").
var knownExtensions = map[string]bool{
	".txt": true, ".json": true, ".xml": true, ".html": true, ".htm": true,
	".css": true, ".js": true, ".ts": true, ".py": true, ".java": true,
	".cpp": true, ".c": true, ".h": true, ".hpp": true, ".cs": true,
	".go": true, ".rs": true, ".md": true, ".yaml": true, ".yml": true,
	".toml": true, ".ini": true, ".cfg": true, ".conf": true,
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true,
	".webp": true, ".avif": true, ".svg": true,
	".mp3": true, ".mp4": true, ".avi": true, ".mkv": true, ".mov": true,
	".wav": true, ".flac": true,
	".zip": true, ".rar": true, ".7z": true, ".tar": true, ".gz": true, ".bz2": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true,
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".bin": true,
	".log": true, ".bak": true, ".tmp": true, ".cache": true,
}

// IsKnownExtension reports whether ext (with leading dot) is in the
// reference table. The comparison is case-insensitive.
func IsKnownExtension(ext string) bool {
	return knownExtensions[strings.ToLower(ext)]
}

// CheckExtensionPlacement returns one message per dot-separated segment
// (after the first) that starts with a known extension followed by '_' or
// '-'. Such names almost always mean a suffix landed after the extension.
func CheckExtensionPlacement(name string) []string {
	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return nil
	}

	var errs []string
	for i := 1; i < len(parts); i++ {
		part := parts[i]
		cut := strings.IndexAny(part, "_-")
		if cut < 0 {
			continue
		}
		ext := "." + part[:cut]
		if !IsKnownExtension(ext) {
			continue
		}
		suffix := part[cut:]
		suggestion := strings.Join(parts[:i], ".") + suffix + ext
		if rest := parts[i+1:]; len(rest) > 0 {
			suggestion += "." + strings.Join(rest, ".")
		}
		errs = append(errs, fmt.Sprintf(
			"suffix %q follows extension %q in %q; put it before the extension, e.g. %q",
			suffix, ext, name, suggestion))
	}
	return errs
}

// ExtensionChange returns the lower-cased (from, to) extensions when both
// names have one and they differ.
func ExtensionChange(src, tgt string) (from, to string, changed bool) {
	from = strings.ToLower(filepath.Ext(src))
	to = strings.ToLower(filepath.Ext(tgt))
	if from == "" || to == "" || from == to {
		return from, to, false
	}
	return from, to, true
}
