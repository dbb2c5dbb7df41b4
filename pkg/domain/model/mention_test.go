package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
)

func TestNewMention(t *testing.T) {
	now := time.Now()
	auth := &model.Authorization{UserID: "U001", WorkspaceID: "T001", WorkspaceName: "acme", AccessToken: "xoxp-1"}

	m := model.NewMention(auth, "general", "1700000000.000100", "hi <@U001>", now)

	gt.Value(t, m.MessageTS).Equal("1700000000.000100")
	gt.Value(t, m.WorkspaceID).Equal("T001")
	gt.Value(t, m.UserID).Equal("U001")
	gt.Value(t, m.ChannelName).Equal("general")
	gt.Value(t, m.Content).Equal("hi <@U001>")
	gt.Bool(t, m.Visible).True()
	gt.Value(t, m.CreatedAt).Equal(now)
	gt.NoError(t, m.Validate())
}

func TestMentionValidate(t *testing.T) {
	testCases := map[string]struct {
		mention model.Mention
		valid   bool
	}{
		"valid": {
			mention: model.Mention{MessageTS: "1.0", WorkspaceID: "T1", UserID: "U1"},
			valid:   true,
		},
		"missing ts": {
			mention: model.Mention{WorkspaceID: "T1", UserID: "U1"},
		},
		"missing workspace": {
			mention: model.Mention{MessageTS: "1.0", UserID: "U1"},
		},
		"missing user": {
			mention: model.Mention{MessageTS: "1.0", WorkspaceID: "T1"},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			err := tc.mention.Validate()
			if tc.valid {
				gt.NoError(t, err)
			} else {
				gt.Error(t, err).Is(model.ErrMissingRequired)
			}
		})
	}
}

func TestAuthorizationValidate(t *testing.T) {
	valid := model.Authorization{UserID: "U1", WorkspaceID: "T1", AccessToken: "xoxp-1"}
	gt.NoError(t, valid.Validate())

	noToken := valid
	noToken.AccessToken = ""
	gt.Error(t, noToken.Validate()).Is(model.ErrMissingRequired)

	noWorkspace := valid
	noWorkspace.WorkspaceID = ""
	gt.Error(t, noWorkspace.Validate()).Is(model.ErrMissingRequired)
}

func TestScanReportStatus(t *testing.T) {
	auth := &model.Authorization{UserID: "U1", WorkspaceID: "T1"}
	r := model.NewScanReport("scan-1", auth, time.Now())
	gt.Value(t, r.Status()).Equal("ok")
	gt.Bool(t, r.Complete()).True()

	r.StoreFailures = 1
	gt.Value(t, r.Status()).Equal("partial")
	gt.Bool(t, r.Complete()).False()

	r.Err = model.ErrMissingRequired
	gt.Value(t, r.Status()).Equal("failed")
}
