package utils

import (
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// GPSCoords holds a decimal latitude/longitude pair
type GPSCoords struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CameraInfo identifies the device that captured an image
type CameraInfo struct {
	Make  string `json:"make"`
	Model string `json:"model"`
}

// Dimensions holds pixel dimensions of an image
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ImageMetadata is the best-effort EXIF data extracted from an uploaded image.
// Every field is optional; absent tags leave the field nil.
type ImageMetadata struct {
	DateTime   *time.Time  `json:"date_time,omitempty"`
	GPS        *GPSCoords  `json:"gps,omitempty"`
	Camera     *CameraInfo `json:"camera,omitempty"`
	Dimensions *Dimensions `json:"dimensions,omitempty"`
}

// ExtractImageMetadata reads EXIF tags from an image file on disk. A file
// without EXIF data (PNG, GIF, stripped JPEG) returns an error; callers treat
// extraction failure as non-fatal.
func ExtractImageMetadata(path string) (*ImageMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, err
	}

	meta := &ImageMetadata{}

	if dt, err := x.DateTime(); err == nil {
		meta.DateTime = &dt
	}

	if lat, long, err := x.LatLong(); err == nil {
		meta.GPS = &GPSCoords{Latitude: lat, Longitude: long}
	}

	cameraMake := exifString(x, exif.Make)
	cameraModel := exifString(x, exif.Model)
	if cameraMake != "" || cameraModel != "" {
		meta.Camera = &CameraInfo{Make: cameraMake, Model: cameraModel}
	}

	width := exifInt(x, exif.PixelXDimension)
	if width == 0 {
		width = exifInt(x, exif.ImageWidth)
	}
	height := exifInt(x, exif.PixelYDimension)
	if height == 0 {
		height = exifInt(x, exif.ImageLength)
	}
	if width > 0 && height > 0 {
		meta.Dimensions = &Dimensions{Width: width, Height: height}
	}

	return meta, nil
}

// exifString reads a string tag, returning "" when absent
func exifString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return s
}

// exifInt reads an integer tag, returning 0 when absent
func exifInt(x *exif.Exif, name exif.FieldName) int {
	tag, err := x.Get(name)
	if err != nil {
		return 0
	}
	v, err := tag.Int(0)
	if err != nil {
		return 0
	}
	return v
}
