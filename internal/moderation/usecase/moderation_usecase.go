package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"community-portal/internal/classifieds/entity"
	classifieds "community-portal/internal/classifieds/usecase"
	"community-portal/pkg/cache"
	"community-portal/pkg/logger"
	"community-portal/pkg/queue"

	"github.com/redis/go-redis/v9"
)

// BulkApproveBatchSize bounds one bulk action; the batch runs
// sequentially with a short delay between calls to keep load on the
// store bounded.
const BulkApproveBatchSize = 5

const defaultBulkDelay = 200 * time.Millisecond

const overrideKeyPrefix = "moderation:override:"

// AdLifecycle is the slice of the classifieds manager the console
// drives. The console never mutates ads any other way.
type AdLifecycle interface {
	ListAll() ([]*entity.Ad, error)
	ListPending(limit, offset int) ([]*entity.Ad, error)
	Approve(id string) error
	Reject(id, reason string) error
}

// Counts are derived from the live list on every call, never cached, so
// the count display cannot drift from the underlying data.
type Counts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}

type BulkResult struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
}

type ModerationUseCase interface {
	// ApproveOne and RejectOne return false when the ad is already being
	// processed and the call was suppressed.
	ApproveOne(id string) (bool, error)
	RejectOne(id, reason string) (bool, error)
	BulkApprove() (*BulkResult, error)
	Counts() (*Counts, error)
	PendingQueue(limit, offset int) ([]*entity.Ad, error)
	ClearLocalOverrides() ([]*entity.Ad, error)
	StartChangeListener(ctx context.Context)
	LastUpdate() time.Time
}

type moderationUseCase struct {
	ads         AdLifecycle
	redisClient *redis.Client
	queueClient *queue.Client
	logger      *logger.Logger
	bulkDelay   time.Duration

	mu         sync.Mutex
	inFlight   map[string]struct{}
	lastUpdate time.Time
}

func NewModerationUseCase(
	ads AdLifecycle,
	redisClient *redis.Client,
	queueClient *queue.Client,
	logger *logger.Logger,
) ModerationUseCase {
	return &moderationUseCase{
		ads:         ads,
		redisClient: redisClient,
		queueClient: queueClient,
		logger:      logger,
		bulkDelay:   defaultBulkDelay,
		inFlight:    make(map[string]struct{}),
		lastUpdate:  time.Now(),
	}
}

func (uc *moderationUseCase) ApproveOne(id string) (bool, error) {
	if !uc.markInFlight(id) {
		return false, nil
	}
	defer uc.releaseInFlight(id)

	if err := uc.ads.Approve(id); err != nil {
		return true, err
	}

	uc.touch()
	uc.recordOverride(id, string(entity.StatusApproved))
	uc.publishDecision(id, string(entity.StatusApproved), "", 5)
	return true, nil
}

func (uc *moderationUseCase) RejectOne(id, reason string) (bool, error) {
	if !uc.markInFlight(id) {
		return false, nil
	}
	defer uc.releaseInFlight(id)

	if err := uc.ads.Reject(id, reason); err != nil {
		return true, err
	}

	uc.touch()
	uc.recordOverride(id, string(entity.StatusRejected))
	uc.publishDecision(id, string(entity.StatusRejected), reason, 3)
	return true, nil
}

// BulkApprove approves up to BulkApproveBatchSize pending ads,
// oldest first, strictly sequentially. A failure on one item does not
// abort the rest of the batch.
func (uc *moderationUseCase) BulkApprove() (*BulkResult, error) {
	ads, err := uc.ads.ListAll()
	if err != nil {
		return nil, err
	}

	// The list is newest first; walk it backwards for the oldest
	// pending items
	var batch []*entity.Ad
	for i := len(ads) - 1; i >= 0 && len(batch) < BulkApproveBatchSize; i-- {
		if ads[i].Status == entity.StatusPending {
			batch = append(batch, ads[i])
		}
	}

	result := &BulkResult{Attempted: len(batch)}
	for i, ad := range batch {
		if i > 0 {
			time.Sleep(uc.bulkDelay)
		}

		executed, err := uc.ApproveOne(ad.ID)
		if err != nil {
			uc.logger.Error("Bulk approve failed for ad %s: %v", ad.ID, err)
			continue
		}
		if executed {
			result.Succeeded++
		}
	}

	return result, nil
}

func (uc *moderationUseCase) Counts() (*Counts, error) {
	ads, err := uc.ads.ListAll()
	if err != nil {
		return nil, err
	}

	counts := &Counts{Total: len(ads)}
	for _, ad := range ads {
		switch ad.Status {
		case entity.StatusPending:
			counts.Pending++
		case entity.StatusApproved:
			counts.Approved++
		case entity.StatusRejected:
			counts.Rejected++
		}
	}
	return counts, nil
}

func (uc *moderationUseCase) PendingQueue(limit, offset int) ([]*entity.Ad, error) {
	return uc.ads.ListPending(limit, offset)
}

// ClearLocalOverrides is the manual recovery action for suspected
// client/server drift: it discards the cached decision overrides and
// returns a fresh authoritative list.
func (uc *moderationUseCase) ClearLocalOverrides() ([]*entity.Ad, error) {
	if uc.redisClient != nil {
		ctx := context.Background()
		iter := uc.redisClient.Scan(ctx, 0, overrideKeyPrefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			uc.redisClient.Del(ctx, iter.Val())
		}
		if err := iter.Err(); err != nil {
			uc.logger.Warn("Failed to clear moderation overrides: %v", err)
		}
	}

	uc.touch()
	return uc.ads.ListAll()
}

// StartChangeListener refreshes the last-update timestamp whenever
// another writer mutates the ads table. Best effort: a missed message
// only delays the next convergence until an explicit refresh.
func (uc *moderationUseCase) StartChangeListener(ctx context.Context) {
	if uc.redisClient == nil {
		return
	}

	pubsub := cache.SubscribeChanges(ctx, uc.redisClient, classifieds.ChangeFeedTable)
	go func() {
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				uc.touch()
			}
		}
	}()
}

func (uc *moderationUseCase) LastUpdate() time.Time {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.lastUpdate
}

func (uc *moderationUseCase) markInFlight(id string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if _, busy := uc.inFlight[id]; busy {
		return false
	}
	uc.inFlight[id] = struct{}{}
	return true
}

func (uc *moderationUseCase) releaseInFlight(id string) {
	uc.mu.Lock()
	delete(uc.inFlight, id)
	uc.mu.Unlock()
}

func (uc *moderationUseCase) touch() {
	uc.mu.Lock()
	uc.lastUpdate = time.Now()
	uc.mu.Unlock()
}

func (uc *moderationUseCase) recordOverride(id, status string) {
	if uc.redisClient == nil {
		return
	}
	key := fmt.Sprintf("%s%s", overrideKeyPrefix, id)
	uc.redisClient.Set(context.Background(), key, status, time.Hour)
}

func (uc *moderationUseCase) publishDecision(id, status, reason string, priority int) {
	if uc.queueClient == nil {
		return
	}

	task := map[string]interface{}{
		"type":     "moderation_decision",
		"ad_id":    id,
		"status":   status,
		"priority": priority,
	}
	if reason != "" {
		task["reason"] = reason
	}

	go func() {
		if err := uc.queueClient.PublishDecisionTask(task); err != nil {
			uc.logger.Error("Failed to publish moderation decision for ad %s: %v", id, err)
		}
	}()
}
