package generator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/phambaophuc/image-gen/pkg/utils"
	"go.uber.org/zap"
)

// sniffLen is how much of the body is kept for content-type detection.
const sniffLen = 3072

// download streams imageURL into a temporary sibling of dest and renames it
// into place once the whole body has been written.
func (r *ImageRequester) download(ctx context.Context, imageURL, dest string) (int64, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return 0, "", downloadFailed(0, "failed to create request", err)
	}

	if u, err := url.Parse(imageURL); err == nil {
		r.logger.Debug("Downloading image", zap.String("host", u.Host))
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, "", downloadFailed(0, "failed to download image", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, "", downloadFailed(resp.StatusCode, "unexpected status", nil)
	}
	if resp.ContentLength > r.maxImageSize {
		return 0, "", downloadFailed(0, fmt.Sprintf("image size %d exceeds maximum allowed size %d", resp.ContentLength, r.maxImageSize), nil)
	}

	tmp := utils.TempPath(dest)
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, "", downloadFailed(0, "failed to create file", err)
	}

	written, head, err := r.writeImage(f, resp.Body)
	if err != nil {
		f.Close()
		os.Remove(tmp)
		return 0, "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return 0, "", downloadFailed(0, "failed to close file", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return 0, "", downloadFailed(0, "failed to move image into place", err)
	}

	contentType, _ := utils.DetectContentType(head)
	if !utils.IsValidImageType(contentType) {
		r.logger.Warn("Downloaded file does not look like an image",
			zap.String("content_type", contentType),
			zap.String("path", dest))
	}

	return written, contentType, nil
}

func (r *ImageRequester) writeImage(f *os.File, body io.Reader) (int64, []byte, error) {
	head := &headBuffer{limit: sniffLen}

	written, err := io.Copy(io.MultiWriter(f, head), io.LimitReader(body, r.maxImageSize+1))
	if err != nil {
		return written, nil, downloadFailed(0, "transfer interrupted", err)
	}
	if written == 0 {
		return 0, nil, downloadFailed(0, "empty image data", nil)
	}
	if written > r.maxImageSize {
		return written, nil, downloadFailed(0, fmt.Sprintf("image exceeds maximum allowed size %d", r.maxImageSize), nil)
	}
	if err := f.Sync(); err != nil {
		return written, nil, downloadFailed(0, "failed to flush file", err)
	}

	return written, head.buf, nil
}

// headBuffer keeps the first limit bytes written to it and discards the rest.
type headBuffer struct {
	buf   []byte
	limit int
}

func (h *headBuffer) Write(p []byte) (int, error) {
	if n := h.limit - len(h.buf); n > 0 {
		if len(p) < n {
			n = len(p)
		}
		h.buf = append(h.buf, p[:n]...)
	}
	return len(p), nil
}
