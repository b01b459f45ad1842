package main

import (
	"fmt"
	"net/http"

	"github.com/aiaugments-collab/Augment-HR-sub002/internal/config"
	appHTTP "github.com/aiaugments-collab/Augment-HR-sub002/internal/handler/http"
	"github.com/aiaugments-collab/Augment-HR-sub002/internal/pkg/cron"
	"github.com/aiaugments-collab/Augment-HR-sub002/internal/pkg/database"
	"github.com/aiaugments-collab/Augment-HR-sub002/internal/pkg/jwt"
	"github.com/aiaugments-collab/Augment-HR-sub002/internal/repository/postgresql"
	attendanceService "github.com/aiaugments-collab/Augment-HR-sub002/internal/service/attendance"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)

	router := appHTTP.NewRouter(cfg, JWTService, attendanceHandler)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(attendanceRepo, cfg.Attendance.AutoCloseAfterHours)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
