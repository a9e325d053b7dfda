// Package mocks provides gomock implementations of the adapter interfaces.
//
// To regenerate after interface changes, run:
//
//	go generate ./adapter/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockAdapter(ctrl)
//	store.EXPECT().Set(gomock.Any(), identity.UserID("u-1"), gomock.Any()).Return(nil, errBoom)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=adapter_mock.go github.com/MrEthical07/goGuard/adapter Adapter,SessionBinder
