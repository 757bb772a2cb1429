package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/app/api/server"
	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/app/service/fulfillment"
	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/app/service/ledger"
	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/app/service/notify"
	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/app/service/profit"
	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/app/service/wallet"
	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/app/service/webhook"
	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/platform/db"
	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/platform/provider"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/config"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	server.Module,
	ledger.Module,
	provider.Module,
	notify.Module,
	wallet.Module,
	profit.Module,
	fulfillment.Module,
	webhook.Module,
)
