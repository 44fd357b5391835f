package imaging

import (
	exif "github.com/dsoprea/go-exif/v3"
)

// identifyingTags are EXIF tags that can point back to a person, a device
// or a place.
var identifyingTags = map[string]bool{
	"GPSLatitude":        true,
	"GPSLatitudeRef":     true,
	"GPSLongitude":       true,
	"GPSLongitudeRef":    true,
	"GPSAltitude":        true,
	"Make":               true,
	"Model":              true,
	"SerialNumber":       true,
	"CameraSerialNumber": true,
	"BodySerialNumber":   true,
	"LensSerialNumber":   true,
	"Software":           true,
	"ProcessingSoftware": true,
	"Artist":             true,
	"Author":             true,
	"Copyright":          true,
	"XPAuthor":           true,
	"DateTimeOriginal":   true,
	"HostComputer":       true,
}

// MetadataTag is one identifying EXIF entry found in a source file.
type MetadataTag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// IdentifyingMetadata returns the identifying EXIF tags embedded in an
// encoded image. Redacted output is re-encoded as PNG without metadata, so
// these are what the export strips. It returns nil when the file carries no
// readable EXIF block.
func IdentifyingMetadata(data []byte) []MetadataTag {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		return nil
	}
	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil
	}

	var tags []MetadataTag
	for _, entry := range entries {
		if identifyingTags[entry.TagName] {
			tags = append(tags, MetadataTag{Name: entry.TagName, Value: entry.Formatted})
		}
	}
	return tags
}
