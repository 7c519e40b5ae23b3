package service

import (
	"encoding/json"

	"github.com/sirupsen/logrus"
)

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeTags never fails, a corrupted column reads as no tags.
func decodeTags(data string) []string {
	tags := make([]string, 0)
	if data == "" {
		return tags
	}
	if err := json.Unmarshal([]byte(data), &tags); err != nil {
		logrus.Warnf("note tags are corrupted: %v", err)
		return make([]string, 0)
	}
	return tags
}
