package ingest

import (
	"path/filepath"
	"strings"
	"unicode"

	"fitness-tracker/models"
)

// FilenameOptions holds the fixed strings the MetaMotion naming scheme needs.
type FilenameOptions struct {
	PathPrefix   string // stripped from the front of the path before splitting
	DeviceSuffix string // e.g. "_MetaWear_2019"
}

// ParseFilename derives participant, label, category and sensor kind from a
// raw export path of the form
//
//	<participant>-<label>-<category><digits>_<device>-...-<Kind>_....csv
//
// The category loses everything from the first underscore on, the device
// suffix and any trailing digits ("heavy2" -> "heavy", "A1" -> "A").
func ParseFilename(path string, opts FilenameOptions) (models.Metadata, error) {
	name := path
	if opts.PathPrefix != "" {
		name = strings.TrimPrefix(filepath.ToSlash(name), filepath.ToSlash(opts.PathPrefix))
	}
	name = filepath.Base(name)

	seg := strings.Split(name, "-")
	if len(seg) < 3 {
		return models.Metadata{}, models.MalformedFilename(path,
			"expected <participant>-<label>-<category>..., got %d segment(s)", len(seg))
	}

	meta := models.Metadata{
		Participant: strings.TrimSpace(seg[0]),
		Label:       strings.TrimSpace(seg[1]),
		Category:    stripCategory(seg[2], opts.DeviceSuffix),
		Kind:        KindOf(path),
	}
	switch {
	case meta.Participant == "":
		return models.Metadata{}, models.MalformedFilename(path, "empty participant segment")
	case meta.Label == "":
		return models.Metadata{}, models.MalformedFilename(path, "empty label segment")
	case meta.Category == "":
		return models.Metadata{}, models.MalformedFilename(path, "empty category segment %q", seg[2])
	}
	return meta, nil
}

// KindOf classifies a path: anything not naming the accelerometer is
// treated as gyroscope data.
func KindOf(path string) models.SensorKind {
	if strings.Contains(path, "Accelerometer") {
		return models.Accelerometer
	}
	return models.Gyroscope
}

func stripCategory(token, deviceSuffix string) string {
	if deviceSuffix != "" {
		token = strings.TrimSuffix(token, deviceSuffix)
	}
	if i := strings.IndexByte(token, '_'); i >= 0 {
		token = token[:i]
	}
	token = strings.TrimSuffix(token, ".csv")
	return strings.TrimRightFunc(token, unicode.IsDigit)
}
