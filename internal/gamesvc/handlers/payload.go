package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/avvvet/animalia/internal/gamesvc/models"
)

var errBadPayload = errors.New("invalid request")

// flexInt accepts a JSON number or a numeric string, as sent by both the
// browser forms and the admin page.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		*n = 0
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return fmt.Errorf("%q is not a whole number", s)
	}
	*n = flexInt(f)
	return nil
}

// decodeRequest fills dst from a JSON body or, for form posts, from the form
// fields named like the JSON keys.
func decodeRequest(r *http.Request, dst any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var body []byte
	if mediaType == "application/json" {
		var err error
		if body, err = io.ReadAll(io.LimitReader(r.Body, 10<<20)); err != nil {
			return fmt.Errorf("%w: %v", errBadPayload, err)
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("%w: %v", errBadPayload, err)
		}
		fields := make(map[string]string, len(r.PostForm))
		for key := range r.PostForm {
			fields[key] = r.PostForm.Get(key)
		}
		var err error
		if body, err = json.Marshal(fields); err != nil {
			return fmt.Errorf("%w: %v", errBadPayload, err)
		}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", errBadPayload, err)
	}
	return nil
}

type resultRequest struct {
	RoomID flexInt `json:"szekreny"`
	Name   string  `json:"nev"`
	Score  flexInt `json:"pont"`
}

type pushRequest struct {
	RoomID   flexInt `json:"szekreny"`
	Label    string  `json:"nev"`
	Code     flexInt `json:"szam"`
	ImageRef string  `json:"url"`
}

type createRoomRequest struct {
	RoomID flexInt `json:"szekreny"`
	Name   string  `json:"name"`
}

type itemPayload struct {
	Label    string  `json:"nev"`
	Code     flexInt `json:"szam"`
	ImageRef string  `json:"url"`
}

type leaderPayload struct {
	PlayerName string    `json:"nev"`
	Score      flexInt   `json:"pont"`
	RecordedAt time.Time `json:"created"`
}

type saveRoomRequest struct {
	Name    *string         `json:"name"`
	Items   []itemPayload   `json:"allatok"`
	Leaders []leaderPayload `json:"leaders"`
}

func (p saveRoomRequest) items() []models.Item {
	items := make([]models.Item, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, models.Item{Label: it.Label, Code: int(it.Code), ImageRef: it.ImageRef})
	}
	return items
}

func (p saveRoomRequest) entries() []models.LeaderEntry {
	entries := make([]models.LeaderEntry, 0, len(p.Leaders))
	for _, l := range p.Leaders {
		entries = append(entries, models.LeaderEntry{PlayerName: l.PlayerName, Score: int(l.Score), RecordedAt: l.RecordedAt})
	}
	return entries
}
