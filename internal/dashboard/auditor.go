// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package dashboard

import (
	"context"
	"os"

	"github.com/sapcc/go-api-declarations/bininfo"
	"github.com/sapcc/go-bits/audittools"
	"github.com/sapcc/go-bits/logg"
)

// Auditor is a component that forwards audit events to the appropriate logs.
// It is used by the API.
type Auditor interface {
	// Record forwards the given audit event to the audit log.
	Record(event audittools.Event)
}

const auditEnvPrefix = "WATCHER_DASHBOARD_AUDIT_RABBITMQ"

// InitAuditTrail initializes an Auditor that publishes events to RabbitMQ if
// the WATCHER_DASHBOARD_AUDIT_RABBITMQ_* variables are given, or only logs
// them otherwise.
func InitAuditTrail(ctx context.Context) (Auditor, error) {
	if os.Getenv(auditEnvPrefix+"_QUEUE_NAME") == "" {
		logg.Info("WATCHER_DASHBOARD_AUDIT_RABBITMQ_QUEUE_NAME is not set, audit events will only be logged")
		return logAuditor{}, nil
	}
	return audittools.NewAuditor(ctx, audittools.AuditorOpts{
		EnvPrefix: auditEnvPrefix,
		Observer: audittools.Observer{
			TypeURI: "service/infra-optim/dashboard",
			Name:    bininfo.Component(),
			ID:      audittools.GenerateUUID(),
		},
	})
}

type logAuditor struct{}

// Record implements the Auditor interface.
func (logAuditor) Record(event audittools.Event) {
	target := event.Target.Render()
	userID := ""
	if event.User != nil {
		userID = event.User.UserUUID()
	}
	logg.Other("AUDIT", "%s %s %s by user %s (status %d)",
		event.Action, target.TypeURI, target.ID, userID, event.ReasonCode)
}
