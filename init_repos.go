// Package main, repository katmanı başlatma.
//
// initRepositories, tüm repository implementasyonlarını oluşturur.
// Her repository aynı *sql.DB pool'unu alır ve interface döner.
package main

import (
	"database/sql"

	"github.com/ieeeestu/site/repository"
)

// Repositories, tüm repository instance'larını tutan container struct.
type Repositories struct {
	Admin      repository.AdminRepository
	Session    repository.SessionRepository
	Event      repository.EventRepository
	Post       repository.PostRepository
	Subscriber repository.SubscriberRepository
}

// initRepositories, veritabanı bağlantısından tüm repository'leri oluşturur.
// sql.DB thread-safe bir connection pool'dur; paylaşılması güvenlidir.
func initRepositories(conn *sql.DB) *Repositories {
	return &Repositories{
		Admin:      repository.NewSQLiteAdminRepo(conn),
		Session:    repository.NewSQLiteSessionRepo(conn),
		Event:      repository.NewSQLiteEventRepo(conn),
		Post:       repository.NewSQLitePostRepo(conn),
		Subscriber: repository.NewSQLiteSubscriberRepo(conn),
	}
}
