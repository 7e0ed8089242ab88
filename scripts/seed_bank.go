// 从 YAML 文件批量导入科目与题目
//
// 科目按 code 匹配，不存在则创建；每个科目的题目整体导入，任一题目校验失败则该科目不写入。
//
// 用法: go run scripts/seed_bank.go -file configs/bank.example.yaml

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"exam_practice_backend/internal/config"
	"exam_practice_backend/internal/repository"
	"exam_practice_backend/internal/service"
	"exam_practice_backend/pkg/database"
	"exam_practice_backend/pkg/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type bankFile struct {
	Subjects []struct {
		Code        string                  `yaml:"code"`
		Name        string                  `yaml:"name"`
		Description string                  `yaml:"description"`
		Questions   []service.QuestionInput `yaml:"questions"`
	} `yaml:"subjects"`
}

func main() {
	file := flag.String("file", "configs/bank.example.yaml", "题库 YAML 文件")
	configDir := flag.String("config", "configs", "配置文件目录")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("无法读取题库文件: %v", err)
	}
	var bank bankFile
	if err := yaml.Unmarshal(data, &bank); err != nil {
		log.Fatalf("解析题库文件失败: %v", err)
	}

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	subjectRepo := repository.NewSubjectRepository(db)
	subjects := service.NewSubjectService(subjectRepo)
	questions := service.NewQuestionService(repository.NewQuestionRepository(db), subjectRepo)

	ctx := context.Background()
	total := 0
	for _, entry := range bank.Subjects {
		subject, err := subjectRepo.FindByCode(ctx, entry.Code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			subject, err = subjects.Create(ctx, service.SubjectInput{Code: entry.Code, Name: entry.Name, Description: entry.Description})
		}
		if err != nil {
			logger.Log.Error("科目处理失败", zap.String("code", entry.Code), zap.Error(err))
			continue
		}

		items := make([]service.QuestionInput, len(entry.Questions))
		for i, q := range entry.Questions {
			q.SubjectID = subject.ID
			items[i] = q
		}
		n, err := questions.Import(ctx, items)
		if err != nil {
			logger.Log.Error("题目导入失败", zap.String("subject", subject.Code), zap.Error(err))
			continue
		}
		total += n
		logger.Log.Info("题目已导入", zap.String("subject", subject.Code), zap.Int("count", n))
	}

	log.Printf("完成！共导入 %d 道题目", total)
}
