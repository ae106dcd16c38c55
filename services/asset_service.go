package services

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"tournament-platform/assets"
	"tournament-platform/storage"
	"tournament-platform/utils"
)

// UploadURLTTL is how long a presigned upload URL stays valid.
const UploadURLTTL = 15 * time.Minute

// AssetService hands out direct-upload URLs so browsers can send images
// straight to the object store.
type AssetService struct {
	Assets    *assets.Manager
	Presigner storage.Presigner
	Logger    zerolog.Logger
}

func NewAssetService(am *assets.Manager, presigner storage.Presigner, logger zerolog.Logger) *AssetService {
	return &AssetService{
		Assets:    am,
		Presigner: presigner,
		Logger:    logger.With().Str("component", "assets").Logger(),
	}
}

type uploadAuthRequest struct {
	Folder      string `json:"folder"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

func (s *AssetService) UploadAuth(c *fiber.Ctx) error {
	if s.Presigner == nil {
		return utils.Fail(c, fiber.StatusServiceUnavailable, "Direct uploads are not available")
	}

	var req uploadAuthRequest
	if err := parseData(c, &req, false); err != nil {
		return respondError(c, s.Logger, err)
	}

	folder := strings.Trim(req.Folder, "/")
	if !assets.Folders[folder] {
		return respondError(c, s.Logger, badInput("unknown folder"))
	}
	if strings.TrimSpace(req.FileName) == "" {
		return respondError(c, s.Logger, badInput("file_name is required"))
	}
	if err := s.Assets.CheckContentType(req.ContentType); err != nil {
		return respondError(c, s.Logger, err)
	}

	name := s.Assets.GenerateName(req.FileName)
	signed, err := s.Presigner.PresignUpload(c.UserContext(), storage.ObjectKey(folder, name), req.ContentType, UploadURLTTL)
	if err != nil {
		return respondError(c, s.Logger, &assets.StoreError{Op: "presign", Err: err})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"upload_url": signed.URL,
		"method":     signed.Method,
		"headers":    signed.Headers,
		"name":       name,
		"url":        signed.PublicURL,
		"expires_at": signed.ExpiresAt,
	})
}
