package response

import (
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pb33f/browserkit/headers"
	"github.com/pb33f/harhar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Add("Set-Cookie", "a=1")
		w.Header().Add("Set-Cookie", "b=2")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))
	defer server.Close()

	httpResp, err := http.Get(server.URL)
	require.NoError(t, err)

	r, err := FromHTTP(httpResp, 0)
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, r.Status())
	assert.Equal(t, "short and stout", r.Content())
	assert.Equal(t, []string{"a=1", "b=2"}, r.HeaderValues("set-cookie"))
	assert.Equal(t, []string{"text/plain"}, r.Headers()["Content-Type"])
}

func TestFromHTTP_BodyLimit(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		limit   int64
		wantErr bool
	}{
		{"unlimited", "0123456789", 0, false},
		{"exact fit", "0123456789", 10, false},
		{"too large", "0123456789", 9, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpResp := &http.Response{
				StatusCode: 200,
				Header:     http.Header{},
				Body:       io.NopCloser(strings.NewReader(tt.body)),
			}

			r, err := FromHTTP(httpResp, tt.limit)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBodyTooLarge)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.body, r.Content())
		})
	}
}

func TestFromHTTP_NilBody(t *testing.T) {
	r, err := FromHTTP(&http.Response{StatusCode: 204}, 0)
	require.NoError(t, err)
	assert.Equal(t, 204, r.Status())
	assert.Empty(t, r.Content())
	assert.Equal(t, headers.Map{}, r.Headers())
}

func TestFromHTTP_Nil(t *testing.T) {
	_, err := FromHTTP(nil, 0)
	assert.Error(t, err)
}

func TestFromHAR(t *testing.T) {
	harResp := harhar.Response{
		StatusCode: 301,
		StatusText: "Moved Permanently",
		Headers: []harhar.NameValuePair{
			{Name: "Location", Value: "/next"},
			{Name: "Set-Cookie", Value: "a=1"},
			{Name: "Set-Cookie", Value: "b=2"},
		},
		Body: harhar.BodyResponseType{
			MIMEType: "text/html",
			Content:  "<a href=\"/next\">moved</a>",
		},
	}

	r, err := FromHAR(harResp)
	require.NoError(t, err)

	assert.Equal(t, 301, r.Status())
	assert.Equal(t, "<a href=\"/next\">moved</a>", r.Content())
	assert.Equal(t, headers.Map{
		"Location":   {"/next"},
		"Set-Cookie": {"a=1", "b=2"},
	}, r.Headers())

	first, ok := r.Header("set-cookie")
	assert.True(t, ok)
	assert.Equal(t, "a=1", first)
}

func TestFromHAR_Base64(t *testing.T) {
	harResp := harhar.Response{
		StatusCode: 200,
		Body: harhar.BodyResponseType{
			Content:  base64.StdEncoding.EncodeToString([]byte("binary\x00data")),
			Encoding: "base64",
		},
	}

	r, err := FromHAR(harResp)
	require.NoError(t, err)
	assert.Equal(t, "binary\x00data", r.Content())
}

func TestFromHAR_BadBase64(t *testing.T) {
	harResp := harhar.Response{
		Body: harhar.BodyResponseType{
			Content:  "not base64!!",
			Encoding: "base64",
		},
	}

	_, err := FromHAR(harResp)
	assert.Error(t, err)
}
