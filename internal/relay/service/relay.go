package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/reasoning-relay/internal/conf"
	apperrors "github.com/lk2023060901/reasoning-relay/internal/pkg/errors"
	"github.com/lk2023060901/reasoning-relay/internal/pkg/logger"
	"github.com/lk2023060901/reasoning-relay/internal/pkg/response"
	"github.com/lk2023060901/reasoning-relay/internal/relay/biz"
	"github.com/lk2023060901/reasoning-relay/internal/relay/types"
	"go.uber.org/zap"
)

const (
	messagesField = "messages"
	imageField    = "image"

	// formOverhead is the body allowance on top of the image cap for the
	// messages field and multipart framing.
	formOverhead = 1 << 20
	// defaultFormMemory matches gin's default when no upload cap is set.
	defaultFormMemory = 32 << 20
)

// RelayService 对话与搜索 HTTP 接口
type RelayService struct {
	chatUC    *biz.ChatUseCase
	searchUC  *biz.SearchUseCase
	maxUpload int64
	logger    *logger.Logger
}

// NewRelayService 创建 RelayService
func NewRelayService(chatUC *biz.ChatUseCase, searchUC *biz.SearchUseCase, config *conf.Config, log *logger.Logger) *RelayService {
	return &RelayService{
		chatUC:    chatUC,
		searchUC:  searchUC,
		maxUpload: config.Server.MaxUploadBytes(),
		logger:    log,
	}
}

// RegisterRoutes 注册路由
func (s *RelayService) RegisterRoutes(r *gin.RouterGroup) {
	chat := r.Group("/chat")
	{
		chat.POST("", s.Chat)
		chat.POST("/open-search", s.OpenSearch)
	}
}

// Chat 推理对话
// POST /api/chat
func (s *RelayService) Chat(c *gin.Context) {
	messages, err := s.bindMessages(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	image, err := s.bindImage(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	msg, err := s.chatUC.Chat(c.Request.Context(), messages, image)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.OK(c, types.ChatReply{Message: *msg})
}

// OpenSearch 联网搜索，只使用最后一条消息
// POST /api/chat/open-search
func (s *RelayService) OpenSearch(c *gin.Context) {
	messages, err := s.bindMessages(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	// An image may be attached by the client; it is accepted and ignored.
	if _, err := c.FormFile(imageField); err == nil {
		logger.FromContext(c.Request.Context()).Debug("ignoring image on search request")
	}

	reply, err := s.searchUC.Search(c.Request.Context(), messages)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.OK(c, reply)
}

// parseForm bounds the request body and parses it once, so later form
// lookups read from the cache instead of the wire.
func (s *RelayService) parseForm(c *gin.Context) error {
	memory := int64(defaultFormMemory)
	if s.maxUpload > 0 {
		memory = s.maxUpload
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload+formOverhead)
	}

	err := c.Request.ParseMultipartForm(memory)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperrors.Wrap(err, apperrors.ErrFileTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
	}
	return apperrors.Wrap(err, apperrors.ErrInvalidParams, "invalid form body: "+err.Error())
}

func (s *RelayService) bindMessages(c *gin.Context) ([]types.Message, error) {
	if err := s.parseForm(c); err != nil {
		return nil, err
	}

	raw, ok := c.GetPostForm(messagesField)
	if !ok {
		return nil, apperrors.NewInvalidParamsError(fmt.Sprintf("form field %q is required", messagesField))
	}

	messages, err := types.ParseMessages(raw)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidParams, err.Error())
	}
	return messages, nil
}

// bindImage reads the optional image upload. A missing file yields nil.
func (s *RelayService) bindImage(c *gin.Context) (*biz.Image, error) {
	fh, err := c.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidParams, "invalid image upload: "+err.Error())
	}

	if s.maxUpload > 0 && fh.Size > s.maxUpload {
		return nil, apperrors.New(apperrors.ErrFileTooLarge,
			fmt.Sprintf("image %q is %d bytes, limit is %d", fh.Filename, fh.Size, s.maxUpload))
	}

	data, err := readFile(fh)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrBadRequest, "failed to read image")
	}

	s.logger.WithContext(c.Request.Context()).Debug("image received",
		zap.String("filename", fh.Filename),
		zap.Int("size", len(data)))

	return &biz.Image{Filename: fh.Filename, Data: data}, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
