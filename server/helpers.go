package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/andreicopos/UrbanEye/errors"
	"github.com/andreicopos/UrbanEye/services/utils"
)

// decode binds the body by content type: JSON, urlencoded or multipart.
func decode(c *gin.Context, v interface{}) error {
	if err := c.ShouldBind(v); err != nil {
		return errs.NewValidationError("body", "unable to parse request body")
	}
	return nil
}

func paramID(c *gin.Context, name, field string) (uint, error) {
	id, ok := utils.ParseID(c.Param(name))
	if !ok {
		return 0, errs.NewValidationError(field, fmt.Sprintf("%s must be a positive integer", field))
	}
	return id, nil
}

// readUpload returns the bytes of a multipart file field. A missing field
// yields nil, nil so the service can report it alongside the other fields.
func (s *Server) readUpload(c *gin.Context, field string) ([]byte, string, error) {
	fileHeader, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", errs.NewValidationError(field, "invalid multipart upload")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", errs.Internal(err)
	}
	defer file.Close()

	limit := s.Config.MaxUploadMB << 20
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, "", errs.Internal(err)
	}
	if int64(len(data)) > limit {
		return nil, "", errs.NewValidationError(field, fmt.Sprintf("%s exceeds %d MB", field, s.Config.MaxUploadMB))
	}
	return data, fileHeader.Filename, nil
}
