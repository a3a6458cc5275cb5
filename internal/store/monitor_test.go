package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	mock_store "github.com/coby5502/dango/internal/mocks/store"
	"github.com/coby5502/dango/internal/store"
)

func TestMonitor_Retry(t *testing.T) {
	tests := []struct {
		name        string
		hasIdentity bool
		setupProbe  func(probe *mock_store.MockAccountProbe)
		want        store.SyncStatus
	}{
		{
			name:        "available account reads as synced",
			hasIdentity: true,
			setupProbe: func(probe *mock_store.MockAccountProbe) {
				probe.EXPECT().CheckStatus(gomock.Any()).Return(store.AccountAvailable, nil)
			},
			want: store.Synced,
		},
		{
			name:        "missing account asks for sign in",
			hasIdentity: true,
			setupProbe: func(probe *mock_store.MockAccountProbe) {
				probe.EXPECT().CheckStatus(gomock.Any()).Return(store.AccountNoAccount, nil)
			},
			want: store.NeedSignIn,
		},
		{
			name:        "restricted account reads as offline",
			hasIdentity: true,
			setupProbe: func(probe *mock_store.MockAccountProbe) {
				probe.EXPECT().CheckStatus(gomock.Any()).Return(store.AccountRestricted, nil)
			},
			want: store.Offline,
		},
		{
			name:        "temporarily unavailable reads as offline",
			hasIdentity: true,
			setupProbe: func(probe *mock_store.MockAccountProbe) {
				probe.EXPECT().CheckStatus(gomock.Any()).Return(store.AccountTemporarilyUnavailable, nil)
			},
			want: store.Offline,
		},
		{
			name:        "probe failure carries the diagnostic",
			hasIdentity: true,
			setupProbe: func(probe *mock_store.MockAccountProbe) {
				probe.EXPECT().CheckStatus(gomock.Any()).
					Return(store.AccountCouldNotDetermine, errors.New("probe exploded"))
			},
			want: store.ErrorStatus("probe exploded"),
		},
		{
			name:        "no identity pins offline without probing",
			hasIdentity: false,
			setupProbe:  func(probe *mock_store.MockAccountProbe) {},
			want:        store.Offline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			probe := mock_store.NewMockAccountProbe(ctrl)
			tt.setupProbe(probe)

			cell := store.NewStatusCell(store.Syncing)
			monitor := store.NewMonitor(cell, probe, tt.hasIdentity)

			monitor.Retry(context.Background())
			assert.Equal(t, tt.want, monitor.Status())
		})
	}
}

func TestMonitor_NotifyRemoteChange_SettlesBackToSynced(t *testing.T) {
	cell := store.NewStatusCell(store.Synced)
	monitor := store.NewMonitor(cell, nil, true, store.WithSettleDelay(20*time.Millisecond))

	monitor.NotifyRemoteChange()
	assert.Equal(t, store.Syncing, monitor.Status())

	assert.Eventually(t, func() bool {
		return monitor.Status() == store.Synced
	}, time.Second, 5*time.Millisecond)
}

func TestMonitor_NotifyRemoteChange_SupersededByRetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	probe := mock_store.NewMockAccountProbe(ctrl)
	probe.EXPECT().CheckStatus(gomock.Any()).Return(store.AccountNoAccount, nil)

	cell := store.NewStatusCell(store.Synced)
	monitor := store.NewMonitor(cell, probe, true, store.WithSettleDelay(20*time.Millisecond))

	monitor.NotifyRemoteChange()
	monitor.Retry(context.Background())
	assert.Equal(t, store.NeedSignIn, monitor.Status())

	// The pending settle callback must not clobber the newer outcome.
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, store.NeedSignIn, monitor.Status())
}

func TestMonitor_NotifyRemoteChange_CoalescesBursts(t *testing.T) {
	cell := store.NewStatusCell(store.Synced)
	monitor := store.NewMonitor(cell, nil, true, store.WithSettleDelay(100*time.Millisecond))

	monitor.NotifyRemoteChange()
	time.Sleep(50 * time.Millisecond)
	monitor.NotifyRemoteChange()

	// The first settle callback fires here but is superseded.
	time.Sleep(75 * time.Millisecond)
	assert.Equal(t, store.Syncing, monitor.Status())

	assert.Eventually(t, func() bool {
		return monitor.Status() == store.Synced
	}, time.Second, 5*time.Millisecond)
}
