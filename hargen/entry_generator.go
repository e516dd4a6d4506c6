package hargen

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/pb33f/harhar"
)

// EntryGenerator creates HAR entries from a seeded random source
type EntryGenerator struct {
	dict *Dictionary
	rng  *rand.Rand
	opts GenerateOptions
}

// NewEntryGenerator creates a new entry generator
func NewEntryGenerator(dict *Dictionary, rng *rand.Rand, opts GenerateOptions) *EntryGenerator {
	return &EntryGenerator{
		dict: dict,
		rng:  rng,
		opts: opts,
	}
}

// GenerateEntry creates a single HAR entry
func (eg *EntryGenerator) GenerateEntry(index int) harhar.Entry {
	started := eg.opts.BaseTime.Add(time.Duration(index) * time.Second)
	return harhar.Entry{
		Start:      started.Format(time.RFC3339),
		Time:       float64(eg.rng.Intn(1000)),
		Request:    eg.generateRequest(),
		Response:   eg.generateResponse(started),
		ServerIP:   eg.generateIP(),
		Connection: fmt.Sprintf("%d", eg.rng.Intn(65535)),
	}
}

func (eg *EntryGenerator) generateRequest() harhar.Request {
	return harhar.Request{
		Method:      eg.randomMethod(),
		URL:         eg.generateURL(),
		HTTPVersion: "HTTP/1.1",
		Headers: []harhar.NameValuePair{
			{Name: "Accept", Value: "*/*"},
			{Name: "User-Agent", Value: "Mozilla/5.0 (compatible; browserkit/1.0)"},
		},
		Cookies:     []harhar.Cookie{},
		QueryParams: []harhar.NameValuePair{},
		HeadersSize: -1,
		BodySize:    0,
	}
}

func (eg *EntryGenerator) generateResponse(started time.Time) harhar.Response {
	status := eg.randomStatus()

	var headers []harhar.NameValuePair
	add := func(name, value string) {
		headers = append(headers, harhar.NameValuePair{Name: name, Value: value})
	}

	body := eg.generateResponseBody()
	add("Content-Type", body.MIMEType)
	add("Server", "hargen")
	add("X-Request-Id", fmt.Sprintf("%08x", eg.rng.Uint32()))

	if eg.opts.VolatileHeaders {
		add("Date", started.UTC().Format(http.TimeFormat))
		add("Cache-Control", eg.randomCacheControl())
	}
	if eg.rng.Intn(3) == 0 {
		add("ETag", fmt.Sprintf("\"%x\"", eg.rng.Uint32()))
	}
	if eg.opts.MultiValueCookies {
		cookies := eg.rng.Intn(3) + 1
		for i := 0; i < cookies; i++ {
			add("Set-Cookie", fmt.Sprintf("%s=%s; Path=/", eg.dict.RandomWord(), eg.dict.RandomWord()))
		}
	}
	if status == http.StatusMovedPermanently || status == http.StatusFound {
		add("Location", eg.generateURL())
	}

	return harhar.Response{
		StatusCode:  status,
		StatusText:  http.StatusText(status),
		HTTPVersion: "HTTP/1.1",
		Headers:     headers,
		Cookies:     []harhar.Cookie{},
		Body:        body,
		HeadersSize: -1,
		BodySize:    body.Size,
	}
}

func (eg *EntryGenerator) generateResponseBody() harhar.BodyResponseType {
	if eg.opts.Base64Bodies && eg.rng.Intn(4) == 0 {
		raw := []byte(eg.dict.RandomWords(4, "\x00"))
		return harhar.BodyResponseType{
			Size:     len(raw),
			MIMEType: "application/octet-stream",
			Content:  base64.StdEncoding.EncodeToString(raw),
			Encoding: "base64",
		}
	}

	if eg.rng.Intn(2) == 0 {
		content := fmt.Sprintf("<html><body><h1>%s</h1><p>%s</p></body></html>",
			eg.dict.RandomWord(), eg.dict.RandomWords(6, " "))
		return harhar.BodyResponseType{
			Size:     len(content),
			MIMEType: "text/html; charset=utf-8",
			Content:  content,
		}
	}

	obj := make(map[string]string)
	fields := eg.rng.Intn(5) + 1
	for i := 0; i < fields; i++ {
		obj[eg.dict.RandomWord()] = eg.dict.RandomWord()
	}
	content, _ := json.Marshal(obj)
	return harhar.BodyResponseType{
		Size:     len(content),
		MIMEType: "application/json",
		Content:  string(content),
	}
}

func (eg *EntryGenerator) randomMethod() string {
	methods := []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"}
	return methods[eg.rng.Intn(len(methods))]
}

func (eg *EntryGenerator) randomStatus() int {
	statuses := []int{200, 201, 204, 301, 302, 400, 401, 403, 404, 500, 502, 503}
	return statuses[eg.rng.Intn(len(statuses))]
}

func (eg *EntryGenerator) randomCacheControl() string {
	values := []string{"no-cache", "max-age=60", "public, max-age=3600", "private", "no-store"}
	return values[eg.rng.Intn(len(values))]
}

func (eg *EntryGenerator) generateURL() string {
	domains := []string{"api.example.com", "service.test.org", "app.company.io"}
	url := "https://" + domains[eg.rng.Intn(len(domains))]
	segments := eg.rng.Intn(3) + 1
	for i := 0; i < segments; i++ {
		url += "/" + eg.dict.RandomWord()
	}
	return url
}

func (eg *EntryGenerator) generateIP() string {
	return fmt.Sprintf("%d.%d.%d.%d",
		eg.rng.Intn(256), eg.rng.Intn(256), eg.rng.Intn(256), eg.rng.Intn(256))
}
