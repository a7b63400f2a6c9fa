package mocks

//go:generate mockgen -destination=./mock_supplier.go -package=mocks wunder_bot/internal/modules/market/service Supplier
