package middleware

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	apperrors "cattery/internal/errors"
)

const (
	uploadKey       = "upload"
	uploadFieldName = "file"
	// formOverhead leaves room for the multipart boundaries and text fields
	// sent alongside the file.
	formOverhead = 1 << 20
)

// UploadedFile is an image accepted by SingleImageUpload.
type UploadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// SingleImageUpload accepts a multipart request carrying one image in the
// "file" field. The file must be at most maxBytes, declare an image/* content
// type and actually contain image bytes. The accepted file and the other form
// values are available through GetUpload and GetFormValues.
func SingleImageUpload(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+formOverhead)

		if err := c.Request.ParseMultipartForm(maxBytes + formOverhead); err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case errors.As(err, &tooLarge):
				abort(c, apperrors.ErrFileTooLarge)
			case errors.Is(err, http.ErrNotMultipart):
				abort(c, apperrors.ErrFileRequired)
			default:
				abort(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Malformed multipart body"))
			}
			return
		}

		file, header, err := c.Request.FormFile(uploadFieldName)
		if err != nil {
			abort(c, apperrors.ErrFileRequired)
			return
		}
		defer file.Close()

		if header.Size > maxBytes {
			abort(c, apperrors.ErrFileTooLarge)
			return
		}
		contentType := header.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			abort(c, apperrors.ErrUnsupportedMediaType)
			return
		}

		data, err := readAll(file, maxBytes)
		if err != nil {
			abort(c, err)
			return
		}
		if !filetype.IsImage(data) {
			abort(c, apperrors.ErrUnsupportedMediaType)
			return
		}

		c.Set(uploadKey, &UploadedFile{
			Filename:    header.Filename,
			ContentType: contentType,
			Data:        data,
		})
		c.Next()
	}
}

func readAll(file multipart.File, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, apperrors.ErrFileTooLarge
	}
	return data, nil
}

// GetUpload returns the file accepted by SingleImageUpload.
func GetUpload(c *gin.Context) (*UploadedFile, bool) {
	v, ok := c.Get(uploadKey)
	if !ok {
		return nil, false
	}
	f, ok := v.(*UploadedFile)
	return f, ok
}

// GetFormValues returns the first value of every text field of the parsed
// multipart form.
func GetFormValues(c *gin.Context) map[string]any {
	values := map[string]any{}
	if c.Request.MultipartForm == nil {
		return values
	}
	for k, vs := range c.Request.MultipartForm.Value {
		if len(vs) > 0 {
			values[k] = vs[0]
		}
	}
	return values
}
