// Package exifinfo reads a short EXIF summary (capture time and camera)
// back out of a recovered JPEG, confirming that metadata restoration took.
package exifinfo
