package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

type client struct {
	BaseURL   string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
	Out       io.Writer
}

func (c *client) do(method, path string, body []byte) (int, []byte, error) {
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

// call hace el request y falla con el "message" del servidor si el status no es 2xx.
func (c *client) call(name, method, path string, payload any) ([]byte, error) {
	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = b
	}
	status, resp, err := c.do(method, path, body)
	if err != nil {
		return nil, err
	}
	if status/100 != 2 {
		var e struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(resp, &e) == nil && e.Message != "" {
			return nil, fmt.Errorf("%s fallo: status=%d: %s", name, status, e.Message)
		}
		return nil, fmt.Errorf("%s fallo: status=%d body=%s", name, status, string(resp))
	}
	return resp, nil
}

func (c *client) print(body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Fprintln(c.Out, string(p))
			return
		}
	}
	fmt.Fprintln(c.Out, strings.TrimSpace(string(body)))
}

// printUsers imprime una línea por usuario en modo text: id y campos k=v ordenados.
func (c *client) printUsers(body []byte) {
	if c.OutFormat == "json" {
		c.print(body)
		return
	}
	var users []map[string]any
	if err := json.Unmarshal(body, &users); err != nil {
		c.print(body)
		return
	}
	for _, u := range users {
		fmt.Fprintln(c.Out, formatUser(u))
	}
}

func formatUser(u map[string]any) string {
	keys := make([]string, 0, len(u))
	for k := range u {
		if k != "id" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%v", u["id"])
	for _, k := range keys {
		v, _ := json.Marshal(u[k])
		fmt.Fprintf(&sb, " %s=%s", k, v)
	}
	return sb.String()
}

// parseSets convierte ["name=Jane", "age=30"] en un objeto JSON.
// El valor se interpreta como JSON si es válido (números, bool, objetos);
// si no, como string.
func parseSets(sets []string) (map[string]any, error) {
	out := make(map[string]any, len(sets))
	for _, s := range sets {
		k, v, ok := strings.Cut(s, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("--set espera k=v, recibido %q", s)
		}
		var parsed any
		if err := json.Unmarshal([]byte(v), &parsed); err == nil {
			out[k] = parsed
		} else {
			out[k] = v
		}
	}
	return out, nil
}
