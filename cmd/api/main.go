package main

import (
	"foodcourt/internal/config"
	"foodcourt/internal/domain/model"
	"foodcourt/internal/handler"
	"foodcourt/internal/infra/cartmirror"
	"foodcourt/internal/infra/cartstore"
	"foodcourt/internal/infra/db"
	"foodcourt/internal/infra/notify"
	infraRepo "foodcourt/internal/infra/repository"
	"foodcourt/internal/logging"
	repo "foodcourt/internal/repository"
	"foodcourt/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	//.envは無くても起動できる（本番は環境変数直渡し）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.GoEnv)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&model.Shop{},
		&model.Food{},
		&model.Order{},
		&model.OrderLine{},
		&model.Payment{},
		&model.CartDraft{},
		&model.CartDraftLine{},
		&model.ChatMessage{},
		&model.StockAdjustment{},
	); err != nil {
		logger.Fatal("auto migrate failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	foodRepo := infraRepo.NewFoodGormRepository(gormDB)
	shopRepo := infraRepo.NewShopGormRepository(gormDB)
	chatRepo := infraRepo.NewChatMessageGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//カートの正本はin-memory、ミラーは設定でDB/メモリを切替
	cartStore := cartstore.NewMemoryCartStore()
	var mirror repo.CartMirrorRepository
	if cfg.CartMirror == "memory" {
		mirror = cartmirror.NewMemoryCartMirror()
	} else {
		mirror = infraRepo.NewCartMirrorGormRepository(gormDB)
	}

	notifier := notify.NewChatNotifier(chatRepo, logger)

	//Usecase生成
	cartUC := usecase.NewCartUsecase(cartStore, mirror, foodRepo, logger)
	catalogUC := usecase.NewCatalogUsecase(foodRepo, shopRepo)
	orderUC := usecase.NewOrderUsecase(txManager, cartStore, mirror, notifier, cfg.MaxOrderLines, logger)
	statusUC := usecase.NewOrderStatusUsecase(txManager)
	paymentUC := usecase.NewPaymentUsecase(txManager)

	//Handler生成
	cartH := handler.NewCartHandler(cartUC)
	catalogH := handler.NewCatalogHandler(catalogUC)
	orderH := handler.NewOrderHandler(orderUC, statusUC)
	paymentH := handler.NewPaymentHandler(paymentUC)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	catalogH.RegisterRoutes(e)
	cartH.RegisterRoutes(e, cfg)
	orderH.RegisterRoutes(e, cfg)
	paymentH.RegisterRoutes(e, cfg)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	logger.Info("server starting", zap.String("addr", addr))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
