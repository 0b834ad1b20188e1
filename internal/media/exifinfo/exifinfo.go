package exifinfo

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// ErrNoExif indicates the file carries no readable EXIF block.
var ErrNoExif = errors.New("no exif data")

// Info summarizes the EXIF fields prismrestore reports after a restore.
type Info struct {
	TakenAt time.Time
	Make    string
	Model   string
}

// Camera joins make and model, dropping a make the model already repeats.
func (i Info) Camera() string {
	switch {
	case i.Model == "":
		return i.Make
	case i.Make == "" || strings.HasPrefix(strings.ToLower(i.Model), strings.ToLower(i.Make)):
		return i.Model
	default:
		return i.Make + " " + i.Model
	}
}

// Empty reports whether no field was found.
func (i Info) Empty() bool {
	return i.TakenAt.IsZero() && i.Make == "" && i.Model == ""
}

// Read decodes the EXIF block of the file at path.
func Read(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %s: %v", ErrNoExif, path, err)
	}

	var info Info
	if taken, err := x.DateTime(); err == nil {
		info.TakenAt = taken
	}
	info.Make = stringTag(x, exif.Make)
	info.Model = stringTag(x, exif.Model)
	if info.Empty() {
		return Info{}, fmt.Errorf("%w: %s", ErrNoExif, path)
	}
	return info, nil
}

func stringTag(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	value, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(value, "\x00"))
}
