package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"ratecard-service/internal/models"

	"github.com/google/uuid"
)

// Key builders. Owner list keys share a prefix so a mutation can invalidate
// every status partition in one pass.

func CatalogKey(id uuid.UUID) string {
	return fmt.Sprintf("ratecard:catalog:%s", id)
}

func OwnerListPrefix(ownerID string) string {
	return fmt.Sprintf("ratecard:owner:%s:list", ownerID)
}

func OwnerListKey(ownerID, status string) string {
	if status == "" {
		status = "all"
	}
	return fmt.Sprintf("%s:%s", OwnerListPrefix(ownerID), status)
}

func PublicKey(publicID string) string {
	return fmt.Sprintf("ratecard:public:%s", publicID)
}

func AdvisoryKey(fingerprint string) string {
	return fmt.Sprintf("ratecard:advisory:%s", fingerprint)
}

// MetricsFingerprint produces a stable hash of normalized creator metrics.
// Identical inputs always hash identically regardless of platform order, so
// the advisory cache key encodes exactly the input that produced the result.
func MetricsFingerprint(metrics models.CreatorMetrics) string {
	normalized := metrics
	normalized.Platforms = make([]models.PlatformMetric, len(metrics.Platforms))
	copy(normalized.Platforms, metrics.Platforms)
	sort.Slice(normalized.Platforms, func(i, j int) bool {
		return normalized.Platforms[i].Platform < normalized.Platforms[j].Platform
	})
	normalized.Languages = make([]string, len(metrics.Languages))
	copy(normalized.Languages, metrics.Languages)
	sort.Strings(normalized.Languages)

	payload, err := json.Marshal(normalized)
	if err != nil {
		// CreatorMetrics is plain data; marshal cannot fail in practice.
		payload = []byte(fmt.Sprintf("%+v", normalized))
	}

	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
