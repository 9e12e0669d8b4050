package helper

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"noc-assistant/internal/models"
)

// ChunkKey derives a deterministic name-based UUID for a chunk. The same
// source, page, chunk id and text always yield the same key, so index
// upserts overwrite stale entries instead of growing duplicates.
func ChunkKey(c models.Chunk) string {
	name := fmt.Sprintf("%s|%d|%d|%s", c.Source, c.Page, c.ChunkID, c.Text)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// pretty print
func PrettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Warn().Msg("Error pretty printing")
	}
	fmt.Println(string(b))
}
