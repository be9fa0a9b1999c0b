package engine

import (
	"errors"
	"testing"

	"github.com/shaiso/Actuator/internal/domain"
)

func TestParseActionConfig_Email(t *testing.T) {
	data := []byte(`{
		"id": "notify",
		"kind": "email",
		"config": {
			"subject_template": "Order {{ object.number }}",
			"body_template": "Thanks",
			"recipient_type": "static",
			"recipients": ["a@example.com", "b@example.com"]
		}
	}`)

	cfg, err := ParseActionConfig(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Kind != domain.ActionKindEmail || cfg.Email == nil {
		t.Fatalf("expected email config, got %+v", cfg)
	}
	if len(cfg.Email.Recipients) != 2 {
		t.Errorf("expected 2 recipients, got %v", cfg.Email.Recipients)
	}
}

func TestParseActionConfig_RecipientsAsString(t *testing.T) {
	data := []byte(`{
		"kind": "email",
		"config": {
			"subject_template": "Hi",
			"recipient_type": "field",
			"recipients": "customer_email"
		}
	}`)

	cfg, err := ParseActionConfig(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Email.Recipients.First() != "customer_email" {
		t.Errorf("expected customer_email, got %v", cfg.Email.Recipients)
	}
}

func TestParseActionConfig_InvalidJSON(t *testing.T) {
	if _, err := ParseActionConfig([]byte(`{"kind":`)); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestValidate_UnknownKind(t *testing.T) {
	err := Validate(&domain.ActionConfig{ID: "x", Kind: "webhook"})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if !errors.Is(err, ErrUnknownActionKind) {
		t.Errorf("expected ErrUnknownActionKind, got %v", err)
	}
	if vErr.Field != "kind" {
		t.Errorf("expected field kind, got %s", vErr.Field)
	}
}

func TestValidate_MissingConfig(t *testing.T) {
	for _, kind := range domain.ActionKinds() {
		t.Run(string(kind), func(t *testing.T) {
			err := Validate(&domain.ActionConfig{Kind: kind})
			if !errors.Is(err, ErrMissingConfig) {
				t.Errorf("expected ErrMissingConfig, got %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *domain.ActionConfig
		field   string
		wantErr error
	}{
		{
			name: "email valid",
			cfg: &domain.ActionConfig{Kind: domain.ActionKindEmail, Email: &domain.EmailConfig{
				SubjectTemplate: "Hi",
				RecipientType:   domain.RecipientStatic,
			}},
		},
		{
			name: "email without subject",
			cfg: &domain.ActionConfig{Kind: domain.ActionKindEmail, Email: &domain.EmailConfig{
				RecipientType: domain.RecipientStatic,
			}},
			field:   "subject_template",
			wantErr: ErrMissingField,
		},
		{
			name: "email user recipients",
			cfg: &domain.ActionConfig{Kind: domain.ActionKindEmail, Email: &domain.EmailConfig{
				SubjectTemplate: "Hi",
				RecipientType:   domain.RecipientUser,
				Recipients:      domain.StringList{"1"},
			}},
			field:   "recipient_type",
			wantErr: ErrInvalidValue,
		},
		{
			name: "email field without name",
			cfg: &domain.ActionConfig{Kind: domain.ActionKindEmail, Email: &domain.EmailConfig{
				SubjectTemplate: "Hi",
				RecipientType:   domain.RecipientField,
			}},
			field:   "recipients",
			wantErr: ErrMissingField,
		},
		{
			name: "api valid",
			cfg: &domain.ActionConfig{Kind: domain.ActionKindAPI, API: &domain.APICallConfig{
				Method:       "post",
				URLTemplate:  "https://example.com/hook",
				SuccessCodes: []int{200, 201},
			}},
		},
		{
			name: "api bad method",
			cfg: &domain.ActionConfig{Kind: domain.ActionKindAPI, API: &domain.APICallConfig{
				Method:      "TRACE",
				URLTemplate: "https://example.com",
			}},
			field:   "method",
			wantErr: ErrInvalidValue,
		},
		{
			name: "api without url",
			cfg: &domain.ActionConfig{Kind: domain.ActionKindAPI, API: &domain.APICallConfig{
				Method: "GET",
			}},
			field:   "url_template",
			wantErr: ErrMissingField,
		},
		{
			name: "api bad auth",
			cfg: &domain.ActionConfig{Kind: domain.ActionKindAPI, API: &domain.APICallConfig{
				Method:      "GET",
				URLTemplate: "https://example.com",
				AuthType:    "oauth",
			}},
			field:   "auth_type",
			wantErr: ErrInvalidValue,
		},
		{
			name: "api bad success code",
			cfg: &domain.ActionConfig{Kind: domain.ActionKindAPI, API: &domain.APICallConfig{
				Method:       "GET",
				URLTemplate:  "https://example.com",
				SuccessCodes: []int{42},
			}},
			field:   "success_codes",
			wantErr: ErrInvalidValue,
		},
		{
			name: "update self valid",
			cfg: &domain.ActionConfig{Kind: domain.ActionKindUpdate, Update: &domain.UpdateConfig{
				TargetType: domain.TargetSelf,
				Fields:     map[string]any{"status": "approved"},
			}},
		},
		{
			name: "update without fields",
			cfg: &domain.ActionConfig{Kind: domain.ActionKindUpdate, Update: &domain.UpdateConfig{
				TargetType: domain.TargetSelf,
			}},
			field:   "fields",
			wantErr: ErrMissingField,
		},
		{
			name: "update related without path",
			cfg: &domain.ActionConfig{Kind: domain.ActionKindUpdate, Update: &domain.UpdateConfig{
				TargetType: domain.TargetRelated,
				Fields:     map[string]any{"x": 1},
			}},
			field:   "related_object_path",
			wantErr: ErrMissingField,
		},
		{
			name: "update model without object id",
			cfg: &domain.ActionConfig{Kind: domain.ActionKindUpdate, Update: &domain.UpdateConfig{
				TargetType:    domain.TargetModel,
				ModelAppLabel: "shop",
				ModelName:     "invoice",
				ObjectIDField: "number",
				Fields:        map[string]any{"x": 1},
			}},
			field:   "object_id",
			wantErr: ErrMissingField,
		},
		{
			name: "update unknown target",
			cfg: &domain.ActionConfig{Kind: domain.ActionKindUpdate, Update: &domain.UpdateConfig{
				TargetType: "parent",
				Fields:     map[string]any{"x": 1},
			}},
			field:   "target_type",
			wantErr: ErrInvalidValue,
		},
		{
			name:    "function without path",
			cfg:     &domain.ActionConfig{Kind: domain.ActionKindFunction, Function: &domain.FunctionConfig{}},
			field:   "function_path",
			wantErr: ErrMissingField,
		},
		{
			name: "notification valid",
			cfg: &domain.ActionConfig{Kind: domain.ActionKindNotification, Notification: &domain.NotificationConfig{
				NotificationType: domain.NotificationInApp,
				TitleTemplate:    "Title",
				MessageTemplate:  "Body",
				RecipientType:    domain.RecipientUser,
				Recipients:       domain.StringList{"1", "2"},
			}},
		},
		{
			name: "notification bad type",
			cfg: &domain.ActionConfig{Kind: domain.ActionKindNotification, Notification: &domain.NotificationConfig{
				NotificationType: "fax",
				TitleTemplate:    "Title",
				MessageTemplate:  "Body",
				RecipientType:    domain.RecipientUser,
			}},
			field:   "notification_type",
			wantErr: ErrInvalidValue,
		},
		{
			name: "notification static recipients",
			cfg: &domain.ActionConfig{Kind: domain.ActionKindNotification, Notification: &domain.NotificationConfig{
				NotificationType: domain.NotificationSMS,
				TitleTemplate:    "Title",
				MessageTemplate:  "Body",
				RecipientType:    domain.RecipientStatic,
			}},
			field:   "recipient_type",
			wantErr: ErrInvalidValue,
		},
		{
			name: "notification bad priority",
			cfg: &domain.ActionConfig{Kind: domain.ActionKindNotification, Notification: &domain.NotificationConfig{
				NotificationType: domain.NotificationPush,
				TitleTemplate:    "Title",
				MessageTemplate:  "Body",
				RecipientType:    domain.RecipientRole,
				Priority:         "urgent",
			}},
			field:   "priority",
			wantErr: ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cfg)

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, vErr.Field)
			}
		})
	}
}
