package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/sftp"
	"github.com/spf13/cast"
	"golang.org/x/crypto/ssh"
)

var sheetsURLPattern = regexp.MustCompile(`^https://docs\.google\.com/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// ConvertGoogleSheetsURL rewrites a Google Sheets share link to its CSV
// export form; any other URL passes through unchanged.
func ConvertGoogleSheetsURL(raw string) string {
	m := sheetsURLPattern.FindStringSubmatch(raw)
	if m == nil {
		return raw
	}
	gid := "0"
	if u, err := url.Parse(raw); err == nil {
		if frag := u.Fragment; strings.HasPrefix(frag, "gid=") {
			gid = strings.TrimPrefix(frag, "gid=")
		} else if q := u.Query().Get("gid"); q != "" {
			gid = q
		}
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s", m[1], gid)
}

// FetchURL downloads a feed document over HTTP(S).
func FetchURL(rawURL string) ([]byte, error) {
	var body []byte
	err := gout.GET(ConvertGoogleSheetsURL(rawURL)).
		SetTimeout(30 * time.Second).
		BindBody(&body).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed URL: %w", err)
	}
	return body, nil
}

// FetchSFTP downloads a feed file from an SFTP server. Host may carry an
// explicit port; 22 is assumed otherwise.
func FetchSFTP(host, user, password, path string) ([]byte, error) {
	if !strings.Contains(host, ":") {
		host += ":22"
	}

	conf := &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{ssh.Password(password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         15 * time.Second,
	}

	conn, err := ssh.Dial("tcp", host, conf)
	if err != nil {
		return nil, fmt.Errorf("sftp dial failed: %w", err)
	}
	defer conn.Close()

	client, err := sftp.NewClient(conn)
	if err != nil {
		return nil, fmt.Errorf("sftp session failed: %w", err)
	}
	defer client.Close()

	f, err := client.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sftp open %s failed: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("sftp read failed: %w", err)
	}
	return data, nil
}

// DocumentRows parses a fetched feed body into rows. JSON array bodies
// (bare arrays or under "data"/"results") are accepted alongside CSV.
func DocumentRows(data []byte) ([]map[string]string, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		rows, err := jsonRows([]byte(trimmed))
		if err == nil {
			return rows, nil
		}
	}
	return Rows(data)
}

// DocumentHeaders extracts the column names of a fetched feed body.
func DocumentHeaders(data []byte) ([]string, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		rows, err := jsonRows([]byte(trimmed))
		if err == nil && len(rows) > 0 {
			headers := make([]string, 0, len(rows[0]))
			for k := range rows[0] {
				headers = append(headers, k)
			}
			sort.Strings(headers)
			return headers, nil
		}
	}
	return Headers(data)
}

func jsonRows(data []byte) ([]map[string]string, error) {
	var objects []map[string]interface{}

	if err := json.Unmarshal(data, &objects); err != nil {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, err
		}
		raw, ok := wrapper["data"]
		if !ok {
			raw, ok = wrapper["results"]
		}
		if !ok {
			return nil, fmt.Errorf("JSON feed has no data or results array")
		}
		if err := json.Unmarshal(raw, &objects); err != nil {
			return nil, err
		}
	}

	rows := make([]map[string]string, 0, len(objects))
	for _, obj := range objects {
		row := make(map[string]string, len(obj))
		for k, v := range obj {
			row[k] = cast.ToString(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
