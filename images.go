package main

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/webp"
)

// ErrImageMissing is returned when a referenced image file does not exist on
// disk. Callers treat it as a skip, not a build failure.
var ErrImageMissing = errors.New("referenced image does not exist")

// ImageOptions control the derived image variants. Widths double as the -wN
// suffix of the generated file names, so the markdown renderer consumes the
// same options.
type ImageOptions struct {
	MaxWidth         int // width cap for the full-size variant
	ContentWidth     int // inline content variant
	BannerWidth      int // square banner variant
	BannerSmallWidth int // secondary square banner variant
	Quality          int // WebP encoding quality, 0-100
}

func DefaultImageOptions() ImageOptions {
	return ImageOptions{
		MaxWidth:         1920,
		ContentWidth:     1024,
		BannerWidth:      720,
		BannerSmallWidth: 360,
		Quality:          90,
	}
}

var reImageRef = regexp.MustCompile(`!\[.*?\]\((.*?)\)`)

// extractImageRefs returns the destinations of all markdown image references
// in body, in order of appearance.
func extractImageRefs(body string) []string {
	matches := reImageRef.FindAllStringSubmatch(body, -1)

	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, m[1])
	}
	return refs
}

// calculateCrop returns the square crop region for an image of the given
// dimensions. Gravity anchors the crop on the long axis: "start" keeps the
// left/top edge, "end" the right/bottom edge, anything else centers it.
// Square images are returned whole.
func calculateCrop(width int, height int, gravity string) image.Rectangle {
	diff := width - height

	switch {
	case diff > 0: // wider than tall
		switch gravity {
		case "start":
			return image.Rect(0, 0, height, height)
		case "end":
			return image.Rect(diff, 0, diff+height, height)
		default:
			return image.Rect(diff/2, 0, diff/2+height, height)
		}
	case diff < 0: // taller than wide
		switch gravity {
		case "start":
			return image.Rect(0, 0, width, width)
		case "end":
			return image.Rect(0, -diff, width, -diff+width)
		default:
			return image.Rect(0, -diff/2, width, -diff/2+width)
		}
	default:
		return image.Rect(0, 0, width, height)
	}
}

// articleThumbnails derives the full-size and inline-width variants for an
// image referenced from page content, then removes the original file.
func articleThumbnails(file string, opts ImageOptions) error {
	img, err := openImage(file)
	if err != nil {
		return err
	}

	stem := strings.TrimSuffix(file, filepath.Ext(file))

	img = fitWidth(img, opts.MaxWidth)
	if err := saveWebP(img, stem+".webp", opts.Quality); err != nil {
		return err
	}

	resized := fitWidth(img, opts.ContentWidth)
	if err := saveWebP(resized, variantName(stem, opts.ContentWidth), opts.Quality); err != nil {
		return err
	}

	return os.Remove(file)
}

// bannerThumbnails derives the full-size variant plus the square banner
// variants, cropped per the gravity anchor, then removes the original file.
func bannerThumbnails(file string, gravity string, opts ImageOptions) error {
	img, err := openImage(file)
	if err != nil {
		return err
	}

	stem := strings.TrimSuffix(file, filepath.Ext(file))

	img = fitWidth(img, opts.MaxWidth)
	if err := saveWebP(img, stem+".webp", opts.Quality); err != nil {
		return err
	}

	b := img.Bounds()
	img = imaging.Crop(img, calculateCrop(b.Dx(), b.Dy(), gravity))

	for _, width := range []int{opts.BannerWidth, opts.BannerSmallWidth} {
		if err := saveWebP(fitWidth(img, width), variantName(stem, width), opts.Quality); err != nil {
			return err
		}
	}

	return os.Remove(file)
}

func variantName(stem string, width int) string {
	return fmt.Sprintf("%s-w%d.webp", stem, width)
}

func openImage(file string) (image.Image, error) {
	img, err := imaging.Open(file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrImageMissing, file)
	}
	return img, err
}

// fitWidth scales img down to the given width, preserving the aspect ratio.
// Images at or below the width are returned unchanged.
func fitWidth(img image.Image, width int) image.Image {
	if img.Bounds().Dx() <= width {
		return img
	}
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}

func saveWebP(img image.Image, file string, quality int) error {
	fh, err := os.Create(file)
	if err != nil {
		return err
	}
	defer fh.Close()

	if err := webp.Encode(fh, img, webp.Options{Quality: quality}); err != nil {
		return fmt.Errorf("encoding %s: %w", file, err)
	}

	return fh.Close()
}
