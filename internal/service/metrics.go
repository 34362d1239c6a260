package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 业务计数器，只在写操作成功后递增
var (
	signupsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warbler_signups_total",
		Help: "Accounts created",
	})

	messagesPostedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warbler_messages_posted_total",
		Help: "Messages posted",
	})

	likesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_likes_total",
		Help: "Like toggles by resulting action",
	}, []string{"action"})

	followsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_follows_total",
		Help: "Follow and unfollow operations",
	}, []string{"action"})
)
