package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type ListFilter struct {
	PatientID *snowflake.ID
	DoctorID  *snowflake.ID
	From      *time.Time
	To        *time.Time
	Page      int
	Size      int
}

type Repository interface {
	FindByID(ctx context.Context, id snowflake.ID) (*Appointment, error)
	List(ctx context.Context, filter ListFilter) ([]Appointment, int64, error)
}
