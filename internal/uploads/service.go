package uploads

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smallwonder/storefront-api/pkg/config"
	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
)

// Signer produces pre-signed upload URLs for the media bucket.
type Signer interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
}

// Target is handed back to the browser: where to PUT the bytes and where
// the object will live afterwards.
type Target struct {
	UploadURL   string `json:"uploadUrl"`
	StoragePath string `json:"storagePath"`
}

type Service interface {
	GenerateUploadURL(fileName, fileType string) (*Target, error)
}

type service struct {
	signer     Signer
	pathPrefix string
	expiry     time.Duration
}

func NewService(signer Signer, uploads config.UploadsConfig, gcsCfg config.GCSConfig) (Service, error) {
	if signer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "url signer is required")
	}
	prefix := strings.Trim(uploads.PathPrefix, "/")
	if prefix == "" {
		prefix = "review-images"
	}
	expiry := gcsCfg.UploadURLExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &service{signer: signer, pathPrefix: prefix, expiry: expiry}, nil
}

func (s *service) GenerateUploadURL(fileName, fileType string) (*Target, error) {
	fileName = strings.TrimSpace(fileName)
	fileType = strings.TrimSpace(fileType)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fileName is required")
	}
	if fileType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fileType is required")
	}

	object := s.pathPrefix + "/" + uuid.NewString() + sanitizedExt(fileName)
	signed, err := s.signer.SignedURL("", object, fileType, s.expiry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "signing upload url")
	}

	return &Target{UploadURL: signed, StoragePath: object}, nil
}

// sanitizedExt keeps only a plausible file extension from the client-supplied
// name; everything else in the object path is generated server-side.
func sanitizedExt(fileName string) string {
	ext := strings.ToLower(path.Ext(path.Base(fileName)))
	if ext == "" || len(ext) > 10 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
