package notify

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/joeys1992/Date/models"
	"github.com/joeys1992/Date/websocket"
)

// PushSubscription stores a browser push endpoint for a user.
type PushSubscription struct {
	ID     primitive.ObjectID   `bson:"_id,omitempty"`
	UserID primitive.ObjectID   `bson:"userId"`
	Sub    webpush.Subscription `bson:"subscription"`
}

// Service fans match and message events out over websocket and web push.
// Both channels are best effort: a user who is offline or has no push
// subscription simply misses the event. Either channel may be nil.
type Service struct {
	ws              *websocket.Manager
	subs            *mongo.Collection
	vapidPublicKey  string
	vapidPrivateKey string
}

func NewService(ws *websocket.Manager, subs *mongo.Collection) *Service {
	s := &Service{ws: ws, subs: subs}
	s.loadVAPIDKeys()
	return s
}

func (s *Service) loadVAPIDKeys() {
	s.vapidPublicKey = os.Getenv("VAPID_PUBLIC_KEY")
	s.vapidPrivateKey = os.Getenv("VAPID_PRIVATE_KEY")
	if s.vapidPublicKey != "" && s.vapidPrivateKey != "" {
		return
	}

	publicKey, privateKey, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		log.Printf("Failed to generate VAPID keys: %v", err)
		return
	}
	s.vapidPublicKey = publicKey
	s.vapidPrivateKey = privateKey

	log.Println("⚠️  Generated new VAPID keys - for production, set these as environment variables:")
	log.Printf("   VAPID_PUBLIC_KEY: %s", publicKey)
	log.Printf("   VAPID_PRIVATE_KEY: %s", privateKey)
}

// VapidPublicKey is handed to browsers when they register for push.
func (s *Service) VapidPublicKey() string {
	return s.vapidPublicKey
}

// SaveSubscription upserts the push subscription for a user, replacing
// any earlier endpoint.
func (s *Service) SaveSubscription(ctx context.Context, userID primitive.ObjectID, sub webpush.Subscription) error {
	if s.subs == nil {
		return nil
	}
	record := PushSubscription{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Sub:    sub,
	}
	_, err := s.subs.UpdateOne(
		ctx,
		bson.M{"userId": userID},
		bson.M{"$set": record},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *Service) MatchCreated(user, other *models.User, match *models.Match) {
	if s.ws != nil {
		s.ws.SendToUser(user.ID.Hex(), "new_match", map[string]interface{}{
			"matchId":   match.ID.Hex(),
			"userId":    other.ID.Hex(),
			"firstName": other.FirstName,
		})
	}
	s.sendPush(user.ID, "New match! 🎉", "You matched with "+other.FirstName)
}

func (s *Service) MessageSent(recipient, sender *models.User, msg *models.Message) {
	if s.ws != nil {
		s.ws.SendToUser(recipient.ID.Hex(), "new_message", map[string]interface{}{
			"matchId":  msg.MatchID.Hex(),
			"senderId": sender.ID.Hex(),
			"content":  msg.Content,
			"sentAt":   msg.SentAt,
		})
	}

	body := msg.Content
	if len(body) > 100 {
		body = body[:100] + "..."
	}
	s.sendPush(recipient.ID, sender.FirstName+" sent a message", body)
}

func (s *Service) sendPush(userID primitive.ObjectID, title, body string) {
	if s.subs == nil || s.vapidPrivateKey == "" {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Panic in push notification: %v", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var sub PushSubscription
		err := s.subs.FindOne(ctx, bson.M{"userId": userID}).Decode(&sub)
		if err == mongo.ErrNoDocuments {
			return
		}
		if err != nil {
			log.Printf("Failed to find subscription for user %s: %v", userID.Hex(), err)
			return
		}

		payload := map[string]interface{}{
			"title": title,
			"body":  body,
			"data": map[string]interface{}{
				"timestamp": time.Now().Unix(),
			},
		}
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			log.Printf("Failed to marshal push payload: %v", err)
			return
		}

		resp, err := webpush.SendNotification(payloadBytes, &sub.Sub, &webpush.Options{
			Subscriber:      "mailto:admin@date.app",
			VAPIDPrivateKey: s.vapidPrivateKey,
			TTL:             30,
		})
		if err != nil {
			log.Printf("Failed to send push notification to user %s: %v", userID.Hex(), err)
			// An expired subscription gets a 410; drop it so we stop retrying
			if resp != nil && resp.StatusCode == 410 {
				if _, delErr := s.subs.DeleteOne(ctx, bson.M{"userId": userID}); delErr != nil {
					log.Printf("Failed to delete expired subscription: %v", delErr)
				}
			}
			return
		}
		resp.Body.Close()
	}()
}
