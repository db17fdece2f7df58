// Package qdrant provides a SemanticIndex implementation using Qdrant.
package qdrant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/ersonp/claim-core/internal/domain/entities"
	"github.com/ersonp/claim-core/internal/domain/ports"
	"github.com/ersonp/claim-core/internal/domain/services"
	"github.com/ersonp/claim-core/internal/infrastructure/config"
)

// Repository implements the SemanticIndex interface using Qdrant.
// Claim fingerprints are UUIDs, so they serve directly as point ids.
type Repository struct {
	client     pb.CollectionsClient
	points     pb.PointsClient
	embedder   ports.Embedder
	collection string
	conn       *grpc.ClientConn
}

// NewRepository creates a new Qdrant repository.
func NewRepository(cfg config.QdrantConfig, embedder ports.Embedder) (*Repository, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	return &Repository{
		client:     pb.NewCollectionsClient(conn),
		points:     pb.NewPointsClient(conn),
		embedder:   embedder,
		collection: cfg.Collection,
		conn:       conn,
	}, nil
}

// Close closes the gRPC connection.
func (r *Repository) Close() error {
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// EnsureCollection creates the collection if it doesn't exist.
func (r *Repository) EnsureCollection(ctx context.Context, vectorSize uint64) error {
	_, err := r.client.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collection,
	})
	if err == nil {
		return nil
	}

	_, err = r.client.Create(ctx, &pb.CreateCollection{
		CollectionName: r.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     vectorSize,
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	return nil
}

// DeleteCollection drops the collection and all its points.
func (r *Repository) DeleteCollection(ctx context.Context) error {
	_, err := r.client.Delete(ctx, &pb.DeleteCollection{
		CollectionName: r.collection,
	})
	if err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	return nil
}

// Upsert stores a claim record keyed by its fingerprint, replacing any
// existing record in place.
func (r *Repository) Upsert(ctx context.Context, record entities.ClaimRecord) error {
	embedding, err := r.embedder.Embed(ctx, record.ClaimText)
	if err != nil {
		return fmt.Errorf("embedding claim: %w", err)
	}

	point := &pb.PointStruct{
		Id: &pb.PointId{
			PointIdOptions: &pb.PointId_Uuid{
				Uuid: record.Fingerprint,
			},
		},
		Vectors: &pb.Vectors{
			VectorsOptions: &pb.Vectors_Vector{
				Vector: &pb.Vector{
					Data: embedding,
				},
			},
		},
		Payload: recordToPayload(record),
	}

	_, err = r.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.collection,
		Points:         []*pb.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("upserting point: %w", err)
	}

	return nil
}

// Get retrieves a record by exact fingerprint.
func (r *Repository) Get(ctx context.Context, fingerprint string) (entities.ClaimRecord, bool, error) {
	resp, err := r.points.Get(ctx, &pb.GetPoints{
		CollectionName: r.collection,
		Ids: []*pb.PointId{
			{PointIdOptions: &pb.PointId_Uuid{Uuid: fingerprint}},
		},
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return entities.ClaimRecord{}, false, fmt.Errorf("getting point: %w", err)
	}

	if len(resp.Result) == 0 {
		return entities.ClaimRecord{}, false, nil
	}

	point := resp.Result[0]
	return payloadToRecord(point.Id.GetUuid(), point.Payload), true, nil
}

// QueryNearest returns up to k records semantically closest to text,
// ordered by ascending distance. Qdrant reports cosine similarity
// scores, which are converted to distances here.
func (r *Repository) QueryNearest(ctx context.Context, text string, k int) ([]ports.ScoredRecord, error) {
	embedding, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	resp, err := r.points.Search(ctx, &pb.SearchPoints{
		CollectionName: r.collection,
		Vector:         embedding,
		Limit:          uint64(k),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("searching points: %w", err)
	}

	scored := make([]ports.ScoredRecord, 0, len(resp.Result))
	for _, point := range resp.Result {
		scored = append(scored, ports.ScoredRecord{
			Record:   payloadToRecord(point.Id.GetUuid(), point.Payload),
			Distance: 1 - float64(point.Score),
		})
	}

	return scored, nil
}

// UpdateMetadata patches individual payload fields on an existing point
// without touching the vector or the rest of the payload.
func (r *Repository) UpdateMetadata(ctx context.Context, fingerprint string, fields map[string]string) error {
	payload := make(map[string]*pb.Value, len(fields))
	for key, value := range fields {
		payload[key] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: value}}
	}

	_, err := r.points.SetPayload(ctx, &pb.SetPayloadPoints{
		CollectionName: r.collection,
		Payload:        payload,
		PointsSelector: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{
					Ids: []*pb.PointId{
						{PointIdOptions: &pb.PointId_Uuid{Uuid: fingerprint}},
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("setting payload: %w", err)
	}

	return nil
}

// List returns stored records, up to limit.
func (r *Repository) List(ctx context.Context, limit int) ([]entities.ClaimRecord, error) {
	resp, err := r.points.Scroll(ctx, &pb.ScrollPoints{
		CollectionName: r.collection,
		Limit:          pb.PtrOf(uint32(limit)),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
		WithVectors: &pb.WithVectorsSelector{
			SelectorOptions: &pb.WithVectorsSelector_Enable{Enable: false},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("scrolling points: %w", err)
	}

	records := make([]entities.ClaimRecord, 0, len(resp.Result))
	for _, point := range resp.Result {
		records = append(records, payloadToRecord(point.Id.GetUuid(), point.Payload))
	}

	return records, nil
}

// Count returns the total number of stored records.
func (r *Repository) Count(ctx context.Context) (uint64, error) {
	resp, err := r.client.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collection,
	})
	if err != nil {
		return 0, fmt.Errorf("getting collection info: %w", err)
	}

	if resp.Result.PointsCount == nil {
		return 0, nil
	}

	return *resp.Result.PointsCount, nil
}

// recordToPayload converts a claim record to a Qdrant payload.
// Evidence links are stored JSON-encoded under source_links.
func recordToPayload(record entities.ClaimRecord) map[string]*pb.Value {
	sourceLinks, err := json.Marshal(record.Evidence)
	if err != nil {
		sourceLinks = []byte("[]")
	}

	payload := map[string]*pb.Value{
		"claim_text":               {Kind: &pb.Value_StringValue{StringValue: record.ClaimText}},
		"verdict":                  {Kind: &pb.Value_StringValue{StringValue: string(record.Verdict)}},
		"explanation":              {Kind: &pb.Value_StringValue{StringValue: record.Explanation}},
		"timestamp":                {Kind: &pb.Value_StringValue{StringValue: record.CreatedAt.UTC().Format(time.RFC3339)}},
		"is_time_dependent":        {Kind: &pb.Value_BoolValue{BoolValue: record.TimeDependency.IsTimeDependent}},
		"dependency_duration_days": {Kind: &pb.Value_IntegerValue{IntegerValue: int64(record.TimeDependency.DurationDays)}},
		"source_links":             {Kind: &pb.Value_StringValue{StringValue: string(sourceLinks)}},
		"user_feedback":            {Kind: &pb.Value_StringValue{StringValue: string(record.UserFeedback)}},
	}

	if !record.FeedbackAt.IsZero() {
		payload["feedback_timestamp"] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: record.FeedbackAt.UTC().Format(time.RFC3339)}}
	}

	return payload
}

// payloadToRecord converts a Qdrant payload back into a claim record.
// Malformed fields decode to zero values rather than failing the read.
func payloadToRecord(fingerprint string, payload map[string]*pb.Value) entities.ClaimRecord {
	var evidence []entities.EvidenceLink
	if raw := getStringValue(payload, "source_links"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &evidence); err != nil {
			evidence = nil
		}
	}

	return entities.ClaimRecord{
		Fingerprint: fingerprint,
		ClaimText:   getStringValue(payload, "claim_text"),
		Verdict:     entities.Verdict(getStringValue(payload, "verdict")),
		Explanation: getStringValue(payload, "explanation"),
		CreatedAt:   services.ParseTimestamp(getStringValue(payload, "timestamp")),
		Evidence:    evidence,
		TimeDependency: entities.TimeDependency{
			IsTimeDependent: getBoolValue(payload, "is_time_dependent"),
			DurationDays:    int(getIntValue(payload, "dependency_duration_days")),
		},
		UserFeedback: entities.Feedback(getStringValue(payload, "user_feedback")),
		FeedbackAt:   services.ParseTimestamp(getStringValue(payload, "feedback_timestamp")),
	}
}

// Helper functions for payload extraction.
func getStringValue(payload map[string]*pb.Value, key string) string {
	if v, ok := payload[key]; ok {
		return v.GetStringValue()
	}
	return ""
}

func getIntValue(payload map[string]*pb.Value, key string) int64 {
	if v, ok := payload[key]; ok {
		return v.GetIntegerValue()
	}
	return 0
}

func getBoolValue(payload map[string]*pb.Value, key string) bool {
	if v, ok := payload[key]; ok {
		return v.GetBoolValue()
	}
	return false
}
