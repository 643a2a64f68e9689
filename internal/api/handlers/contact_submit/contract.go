package contact_submit

import (
	"context"

	"github.com/tripointhq/TPD-BookingService/internal/integrations/zohomail"
)

type Mailer interface {
	Send(ctx context.Context, msg zohomail.Message) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
