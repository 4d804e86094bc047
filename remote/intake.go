package remote

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

type IntakeSubmission struct {
	FullName string
	Age      int
	District string
	WhatsApp string
	Email    string
	Type     string
	File     []byte
	FileName string
	FileType string
}

func (s IntakeSubmission) form() url.Values {
	v := url.Values{}
	v.Set("fullName", s.FullName)
	v.Set("age", strconv.Itoa(s.Age))
	v.Set("district", s.District)
	v.Set("whatsapp", s.WhatsApp)
	v.Set("email", s.Email)
	v.Set("type", s.Type)
	v.Set("file", base64.StdEncoding.EncodeToString(s.File))
	v.Set("fileName", s.FileName)
	v.Set("fileType", s.FileType)
	return v
}

// SubmitRegistration posts the registration form-encoded with the media as
// base64. Callers treat it as fire-and-forget.
func (c *Client) SubmitRegistration(ctx context.Context, s IntakeSubmission) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.intakeURL, strings.NewReader(s.form().Encode()))
	if err != nil {
		return fmt.Errorf("%w: build intake request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	_, err = c.do(req)
	return err
}
