package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/inventory/internal/config"
	"github.com/mamadbah2/inventory/internal/domain/models"
	client "github.com/mamadbah2/inventory/pkg/clients/whatsapp"
)

// ChangeNotifier sends a short WhatsApp message for every inventory change.
type ChangeNotifier struct {
	recipient string
	client    client.Client
	logger    *zap.Logger
}

// NewChangeNotifier wires a new notifier instance.
func NewChangeNotifier(cfg config.WhatsAppConfig, client client.Client, logger *zap.Logger) *ChangeNotifier {
	n := &ChangeNotifier{
		recipient: cfg.RecipientID,
		client:    client,
		logger:    logger,
	}
	if n.logger == nil {
		n.logger = zap.NewNop()
	}
	return n
}

// NotifyChange formats the event and sends it to the configured recipient.
func (n *ChangeNotifier) NotifyChange(ctx context.Context, event models.ChangeEvent) error {
	if n.recipient == "" {
		return errors.New("missing notification recipient")
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := n.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:   n.recipient,
		Body: FormatChange(event),
	})
	if err != nil {
		return err
	}

	n.logger.Debug("change notification sent", zap.String("action", string(event.Action)), zap.Int("index", event.Index))
	return nil
}

var changeTitles = map[models.ChangeAction]string{
	models.ChangeAdd:    "Inventory item added",
	models.ChangeUpdate: "Inventory item updated",
	models.ChangeDelete: "Inventory item deleted",
}

// FormatChange renders the notification text for an event.
func FormatChange(event models.ChangeEvent) string {
	title, ok := changeTitles[event.Action]
	if !ok {
		title = "Inventory changed"
	}

	msg := fmt.Sprintf("%s\n%s (%s): %s %s", title, event.Name, event.Type, event.Quantity, event.Unit)
	if event.Index > 0 {
		msg += fmt.Sprintf("\nIndex %d", event.Index)
	}
	if event.Worksheet != "" {
		msg += fmt.Sprintf(" in %s", event.Worksheet)
	}
	return msg
}
