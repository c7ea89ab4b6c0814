package bundle

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ethanhanderson/church-presenter-sub001/internal/models"
)

var mimeByExtension = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"svg":  "image/svg+xml",
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"mov":  "video/quicktime",
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"ogg":  "audio/ogg",
}

// ImportMedia reads media files and computes their manifest entries: fresh
// uuid, extension-sniffed mime, sha256 and byte size. The bundle path uses
// the first 8 id characters, matching the on-disk layout of existing
// bundles.
func ImportMedia(paths []string) ([]models.MediaEntry, error) {
	entries := make([]models.MediaEntry, 0, len(paths))

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read media %s: %w", path, err)
		}

		id := uuid.NewString()
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		mime, ok := mimeByExtension[ext]
		if !ok {
			mime = "application/octet-stream"
		}

		sum := sha256.Sum256(data)
		entries = append(entries, models.MediaEntry{
			ID:       id,
			Filename: filepath.Base(path),
			Path:     fmt.Sprintf("media/%s.%s", id[:8], ext),
			Mime:     mime,
			SHA256:   hex.EncodeToString(sum[:]),
			ByteSize: int64(len(data)),
			Type:     mediaType(mime),
		})
	}
	return entries, nil
}

func mediaType(mime string) string {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return "image"
	case strings.HasPrefix(mime, "video/"):
		return "video"
	case strings.HasPrefix(mime, "audio/"):
		return "audio"
	default:
		return "unknown"
	}
}
