package main

import (
	"bakery/internal/config"
	"bakery/internal/domain/model"
	"bakery/internal/handler"
	"bakery/internal/infra/db"
	infraRepo "bakery/internal/infra/repository"
	"bakery/internal/notify"
	"bakery/internal/server"
	"bakery/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	if err := godotenv.Load(); err != nil {
		log.Info(".env not loaded, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&model.Product{},
		&model.Order{},
		&model.OrderLine{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := db.Seed(gormDB); err != nil {
		log.Fatalf("seed: %v", err)
	}

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//通知ハブ
	hub := notify.NewHub()
	go hub.Run()

	//Usecase生成
	productUC := usecase.NewProductUsecase(productRepo, hub)
	orderUC := usecase.NewOrderUsecase(txManager)

	//Handler生成
	productH := handler.NewProductHandler(productUC)
	orderH := handler.NewOrderHandler(orderUC)
	notifH := handler.NewNotificationHandler(hub)

	//Server起動
	e := server.New(cfg, productH, orderH, notifH)

	addr := ":" + cfg.Port
	if err := server.Start(e, addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
