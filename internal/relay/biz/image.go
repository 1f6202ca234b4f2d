package biz

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultImageMIME is used when the upload is not recognisably an image.
const DefaultImageMIME = "image/jpeg"

// Image 上传的图片
type Image struct {
	Filename string
	Data     []byte
}

// MIME sniffs the image type from its bytes.
func (img *Image) MIME() string {
	if mtype := mimetype.Detect(img.Data).String(); strings.HasPrefix(mtype, "image/") {
		return mtype
	}
	return DefaultImageMIME
}

// DataURI 编码为内联 data URI
func (img *Image) DataURI() string {
	return "data:" + img.MIME() + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}
