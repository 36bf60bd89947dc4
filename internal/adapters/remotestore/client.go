// Package remotestore talks to the task-link store over HTTP.
package remotestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/csg33k/tugas-tracker/internal/domain"
)

// ErrUnexpectedStatus is wrapped by read calls answered with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected status")

type Client struct {
	base string
	http *http.Client
	log  *slog.Logger
}

// New returns a client for the store at base, e.g. "http://localhost:3000".
// A nil hc means http.DefaultClient. Calls carry no timeout of their own;
// cancel ctx to abandon one.
func New(base string, hc *http.Client, log *slog.Logger) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{base: strings.TrimRight(base, "/"), http: hc, log: log}
}

func (c *Client) ListStudentsWithCounts(ctx context.Context) ([]domain.Student, error) {
	return getList[domain.Student](ctx, c, "/students/with-counts")
}

func (c *Client) ListStudents(ctx context.Context) ([]domain.Student, error) {
	return getList[domain.Student](ctx, c, "/students")
}

func (c *Client) History(ctx context.Context, studentID string) ([]domain.Submission, error) {
	return getList[domain.Submission](ctx, c, "/submissions/"+url.PathEscape(studentID)+"/history")
}

func (c *Client) Upload(ctx context.Context, studentID string, req domain.UploadRequest) (domain.ActionResult, error) {
	return c.postAction(ctx, "/submissions/"+url.PathEscape(studentID)+"/upload", req)
}

func (c *Client) Delete(ctx context.Context, studentID, submissionID string, req domain.DeleteRequest) (domain.ActionResult, error) {
	path := fmt.Sprintf("/submissions/%s/%s/delete", url.PathEscape(studentID), url.PathEscape(submissionID))
	return c.postAction(ctx, path, req)
}

func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", path)
	}
	defer drain(res)
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, errors.Wrapf(ErrUnexpectedStatus, "GET %s: %d", path, res.StatusCode)
	}
	list, err := decodeList[T](res, c.log)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", path)
	}
	return list, nil
}

// postAction sends body as JSON and decodes the {status, message} answer.
// A body that cannot be decoded yields a zero result with only OK set.
func (c *Client) postAction(ctx context.Context, path string, body any) (domain.ActionResult, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return domain.ActionResult{}, errors.Wrap(err, "encode body")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return domain.ActionResult{}, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		return domain.ActionResult{}, errors.Wrapf(err, "POST %s", path)
	}
	defer drain(res)

	var result domain.ActionResult
	if _, err := decodeBody(res, &result, c.log); err != nil {
		return domain.ActionResult{}, errors.Wrapf(err, "POST %s", path)
	}
	result.OK = res.StatusCode >= 200 && res.StatusCode <= 299
	return result, nil
}

func drain(res *http.Response) {
	_, _ = io.Copy(io.Discard, res.Body)
	res.Body.Close()
}
