package mocks

//go:generate mockgen -destination=./mock_sink.go -package=mocks wunder_bot/internal/modules/alert/service Sink
