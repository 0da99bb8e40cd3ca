package events

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"LMS-backend/internal/library/gateway"
	"LMS-backend/internal/library/httpapi"
	"LMS-backend/internal/platform/db"
)

// イベントは参照のみ（登録は別システム）
type Event struct {
	EventID  int64  `json:"event_id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Date     string `json:"date"`
}

const listEventsSQL = `SELECT event_id, event_name, location, date FROM Library_Events ORDER BY date DESC`

type Service struct {
	sess *db.Session
}

func NewService(sess *db.Session) *Service { return &Service{sess: sess} }

func (s *Service) List(ctx context.Context) ([]Event, error) {
	var recs []db.Record
	err := s.sess.Do(ctx, func(ctx context.Context, q db.DBTX) error {
		rows, err := q.QueryContext(ctx, listEventsSQL)
		if err != nil {
			return err
		}
		recs, err = db.ScanRecords(rows)
		return err
	})
	if err != nil {
		return nil, gateway.NewDatabaseError(err)
	}
	out := make([]Event, 0, len(recs))
	for _, r := range recs {
		out = append(out, Event{
			EventID:  r.Int64("event_id"),
			Name:     r.String("event_name"),
			Location: r.String("location"),
			Date:     r.Date("date"),
		})
	}
	return out, nil
}

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	r.GET("/events", func(c *gin.Context) {
		items, err := svc.List(c.Request.Context())
		if err != nil {
			httpapi.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	})
}
