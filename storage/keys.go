package storage

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// MediaFileName builds "<full name>.<ext>" from the participant's name and the
// uploaded file's original name. Names are transliterated so Arabic input
// still yields a usable object key.
func MediaFileName(fullName, originalName string) string {
	base := slug.Make(fullName)
	if base == "" {
		base = "participant"
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(originalName), "."))
	if ext == "" {
		return base
	}
	return base + "." + ext
}

// MediaKey is the object key for a participant's submitted recording.
func MediaKey(participantID, fullName, originalName string) string {
	return path.Join("media", participantID, MediaFileName(fullName, originalName))
}

// BackupKey is the object key for an archived backup export.
func BackupKey(at time.Time) string {
	return path.Join("backups", at.UTC().Format("2006-01-02T15-04-05Z")+"-"+uuid.NewString()[:8]+".json")
}
