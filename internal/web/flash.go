package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// flashCookie carries one-shot messages across a redirect, mirroring the
// flash mechanism of the original deployment. The cookie is cleared the
// first time its messages are read.
const flashCookie = "wellpull_flash"

// addFlash appends a message to the pending flash cookie. Messages already
// queued on this response are preserved, so a handler may flash more than
// once before redirecting.
func addFlash(w http.ResponseWriter, r *http.Request, message string) {
	messages := append(pendingFlashes(w, r), message)

	data, err := json.Marshal(messages)
	if err != nil {
		return
	}

	// Replace any flash cookie already queued on this response rather than
	// stacking Set-Cookie headers for the same name.
	header := w.Header()
	queued := header.Values("Set-Cookie")
	header.Del("Set-Cookie")
	for _, v := range queued {
		if c, err := http.ParseSetCookie(v); err == nil && c.Name == flashCookie {
			continue
		}
		header.Add("Set-Cookie", v)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.URLEncoding.EncodeToString(data),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlashes returns the pending messages and clears the cookie.
func popFlashes(w http.ResponseWriter, r *http.Request) []string {
	messages := readFlashes(r)
	if len(messages) == 0 {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return messages
}

// pendingFlashes returns the messages this response has already queued,
// falling back to the request's cookie.
func pendingFlashes(w http.ResponseWriter, r *http.Request) []string {
	for _, v := range w.Header().Values("Set-Cookie") {
		c, err := http.ParseSetCookie(v)
		if err != nil || c.Name != flashCookie {
			continue
		}
		if messages := decodeFlashes(c.Value); messages != nil {
			return messages
		}
	}
	return readFlashes(r)
}

func readFlashes(r *http.Request) []string {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	return decodeFlashes(c.Value)
}

func decodeFlashes(value string) []string {
	data, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var messages []string
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil
	}
	return messages
}
