// Package detector talks to the external object-detection model.
package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"
)

// Prediction is one raw box as the model reports it, in the pixel space of
// the image it was given.
type Prediction struct {
	Class      int        `json:"cls"`
	Confidence float64    `json:"conf"`
	XYXY       [4]float64 `json:"xyxy"`
}

// Output is the model's answer: class names and boxes in model order.
type Output struct {
	Names       map[int]string `json:"names"`
	Predictions []Prediction   `json:"boxes"`
}

// Label returns the class name, or class_<n> when the model did not name it.
func (o *Output) Label(class int) string {
	if name, ok := o.Names[class]; ok && name != "" {
		return name
	}
	return "class_" + strconv.Itoa(class)
}

// Classifier is constructed once at startup and shared by all requests.
type Classifier interface {
	Classify(ctx context.Context, img image.Image) (*Output, error)
}

// HTTPClassifier posts images to an inference server.
type HTTPClassifier struct {
	url    string
	client *http.Client
}

func NewHTTPClassifier(url string, client *http.Client) *HTTPClassifier {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPClassifier{url: url, client: client}
}

func (h *HTTPClassifier) Classify(ctx context.Context, img image.Image) (*Output, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "image.jpg")
	if err != nil {
		return nil, err
	}
	if err := imaging.Encode(part, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call detector: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("detector returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out Output
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode detector response: %w", err)
	}
	return &out, nil
}
