package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/config"
	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/domain"
	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/repository"
	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var year int
	var month int

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机护士, 2: 插入随机软性请求, 3: 插入随机硬性请求)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.IntVar(&year, "year", time.Now().Year(), "软性请求所属年份")
	flag.IntVar(&month, "month", int(time.Now().Month()), "软性请求所属月份")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的护士数量")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			nurse, err := utils.GenerateRandomNurse(cfg.Seed.Nurse.Password, cfg.NewNurse.EmailDomain)
			if err != nil {
				slog.Error("无法生成随机护士", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateNurse(nurse); err != nil {
				slog.Error("无法插入护士", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入护士成功", slog.Int("count", n-cnt))
	case 2:
		if month < 1 || month > 12 {
			slog.Error("请输入合法的月份")
			return
		}

		nurses, err := listAllNurses(repo)
		if err != nil {
			slog.Error("无法获取护士列表", slog.String("error", err.Error()))
			return
		}

		cnt := 0
		for _, nurse := range nurses {
			set := &domain.SoftRequestSet{
				NurseID: nurse.ID,
				Ward:    nurse.Ward,
				Year:    year,
				Month:   month,
				Entries: utils.GenerateRandomSoftEntries(year, month),
			}

			if err := repo.ReplaceSoftRequestSet(set); err != nil {
				slog.Error("无法插入软性请求", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入软性请求成功", slog.Int("count", cnt))
	case 3:
		nurses, err := listAllNurses(repo)
		if err != nil {
			slog.Error("无法获取护士列表", slog.String("error", err.Error()))
			return
		}
		if len(nurses) == 0 {
			slog.Error("数据库中还没有护士，请先插入护士")
			return
		}

		if n <= 0 {
			slog.Error("请输入合法的请求数量")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			nurse := nurses[rand.Intn(len(nurses))]
			request := &domain.HardRequest{
				NurseID: nurse.ID,
				Ward:    nurse.Ward,
				Date:    utils.GenerateRandomFutureDate(),
				Reason:  "随机生成的测试请求",
			}

			if err := repo.CreateHardRequest(request); err != nil {
				slog.Error("无法插入硬性请求", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入硬性请求成功", slog.Int("count", n-cnt))
	default:
		slog.Error("指定的操作非法")
	}
}

func listAllNurses(repo *repository.Repository) ([]*domain.Nurse, error) {
	nurses := make([]*domain.Nurse, 0)
	for _, ward := range domain.AllWards {
		wardNurses, err := repo.GetNursesByWard(ward)
		if err != nil {
			return nil, err
		}
		nurses = append(nurses, wardNurses...)
	}
	return nurses, nil
}
