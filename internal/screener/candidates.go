package screener

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
)

// Ranking is the ordered candidate list returned by one successful submission.
type Ranking struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is one ranked resume. Score is the service's and is never recomputed.
type Candidate struct {
	Filename string  `json:"filename"`
	Score    float64 `json:"score"`
	Details  Details `json:"details"`
}

// Details holds what the service extracted from a resume. Empty strings mean
// the service found nothing.
type Details struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Education  string   `json:"education"`
	Experience string   `json:"experience"`
	Skills     []string `json:"skills"`
}

func (r *Ranking) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Candidates)
}

func (r *Ranking) Filenames() []string {
	names := make([]string, 0, r.Len())
	if r == nil {
		return names
	}

	for _, c := range r.Candidates {
		names = append(names, c.Filename)
	}

	return names
}

const rankingSchema = `{
  "type": "object",
  "properties": {
    "candidates": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["filename", "score"],
        "properties": {
          "filename": {"type": "string"},
          "score": {"type": "number", "minimum": 0, "maximum": 100},
          "details": {
            "type": ["object", "null"],
            "properties": {
              "name": {"type": ["string", "null"]},
              "email": {"type": ["string", "null"]},
              "phone": {"type": ["string", "null"]},
              "education": {"type": ["string", "null"]},
              "experience": {"type": ["string", "null"]},
              "skills": {"type": ["array", "null"], "items": {"type": "string"}}
            }
          }
        }
      }
    }
  }
}`

var loadRankingSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(rankingSchema))
})

// decodeRanking validates a 2xx body against the ranking schema and decodes it.
// A missing or null candidates list decodes to an empty ranking.
func decodeRanking(data []byte) (*Ranking, error) {
	schema, err := loadRankingSchema()
	if err != nil {
		return nil, fmt.Errorf("loading ranking schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &MalformedResponseError{Reason: "invalid json", Err: err}
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			problems = append(problems, fmt.Sprintf("%s: %s", field, desc.Description()))
		}
		return nil, &MalformedResponseError{Reason: strings.Join(problems, "; ")}
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &MalformedResponseError{Reason: "invalid json", Err: err}
	}

	ranking := &Ranking{}
	cfg := &mapstructure.DecoderConfig{
		Result:  ranking,
		TagName: "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, &MalformedResponseError{Reason: "unexpected candidate shape", Err: err}
	}

	if ranking.Candidates == nil {
		ranking.Candidates = []Candidate{}
	}

	return ranking, nil
}
