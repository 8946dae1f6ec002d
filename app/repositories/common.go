package repositories

import (
	"encoding/json"
	"fmt"

	"community/app/models"
)

const (
	// Key prefixes for different entity types
	PostKeyPrefix    = "post:"
	CommentKeyPrefix = "comment:"
	LikeKeyPrefix    = "like:"
	ProfileKeyPrefix = "profile:"
	OutboxKeyPrefix  = "outbox:"
)

func postKey(id string) []byte {
	return []byte(PostKeyPrefix + id)
}

func commentKey(id string) []byte {
	return []byte(CommentKeyPrefix + id)
}

// likeKey is the composite (postID, userID) key; its existence is the
// uniqueness constraint for likes.
func likeKey(postID, userID string) []byte {
	return []byte(LikeKeyPrefix + postID + ":" + userID)
}

func likePrefix(postID string) []byte {
	return []byte(LikeKeyPrefix + postID + ":")
}

func profileKey(userID string) []byte {
	return []byte(ProfileKeyPrefix + userID)
}

// outboxKey embeds the occurrence time so that prefix scans return entries
// in occurredAt order.
func outboxKey(entry *models.OutboxEntry) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", OutboxKeyPrefix, entry.OccurredAt.UnixNano(), entry.ID))
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %v", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %v", err)
	}
	return nil
}
