package form

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"

	"github.com/sakif/yatube/internal/storage"
)

// DefaultMaxUpload caps an image upload when the caller passes 0.
const DefaultMaxUpload = 5 << 20

// allowedImageTypes are the formats browsers display inline. SVG is left
// out because it can carry script.
var allowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/bmp",
}

// formOverhead is the room left beside the image for text fields and
// multipart framing.
const formOverhead = 1 << 20

// ErrTooLarge is returned when a post body exceeds the upload limit.
var ErrTooLarge = errors.New("form: request body too large")

const invalidImage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."

// PostForm is the create/edit post form.
type PostForm struct {
	Text       string `form:"text" validate:"required"`
	Group      string `form:"group" validate:"max=64"`
	ClearImage bool   `form:"image-clear"`

	// Image is nil when no file was attached.
	Image *storage.Upload `form:"-"`

	Errors Errors `form:"-"`
}

// BindPost reads a post form from r. Bad input lands in Errors; the error
// return is reserved for unreadable requests, and is ErrTooLarge once the
// body passes maxUpload plus formOverhead.
func BindPost(w http.ResponseWriter, r *http.Request, maxUpload int64) (*PostForm, error) {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUpload
	}

	limit := maxUpload + formOverhead
	if r.ContentLength > limit {
		return nil, ErrTooLarge
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := parse(r, maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrTooLarge
		}
		return nil, fmt.Errorf("form: parsing post form: %w", err)
	}

	f := &PostForm{
		Text:       value(r, "text"),
		Group:      value(r, "group"),
		ClearImage: r.PostFormValue("image-clear") != "",
	}
	f.Errors = check(f)

	upload, msg, err := readImage(r, "image", maxUpload)
	if err != nil {
		return nil, err
	}
	if msg != "" {
		f.Errors.Add("image", msg)
	}
	f.Image = upload

	return f, nil
}

func (f *PostForm) Valid() bool {
	return !f.Errors.Any()
}

// readImage returns (nil, "", nil) when no file was sent and a non-empty
// message when the file is not an acceptable image.
func readImage(r *http.Request, field string, maxBytes int64) (*storage.Upload, string, error) {
	if r.MultipartForm == nil {
		return nil, "", nil
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("form: reading %s: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("form: reading %s: %w", field, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Sprintf("Ensure the image is at most %d bytes.", maxBytes), nil
	}
	if len(data) == 0 {
		return nil, "The submitted file is empty.", nil
	}

	// The client's Content-Type header is not trusted; sniff the bytes.
	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
		return nil, invalidImage, nil
	}

	return &storage.Upload{
		Filename:    header.Filename,
		ContentType: mt.String(),
		Extension:   mt.Extension(),
		Data:        data,
	}, "", nil
}
