package messaging

import (
	"fmt"
	"log"
	"medrecords-service/internal/app/config"

	"github.com/rabbitmq/amqp091-go"
)

func NewRabbitMQ(driverConfig *config.DriverConfig) (*amqp091.Connection, error) {
	connectionString := fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		driverConfig.RabbitMQ.Username,
		driverConfig.RabbitMQ.Password,
		driverConfig.RabbitMQ.Host,
		driverConfig.RabbitMQ.Port,
	)
	conn, err := amqp091.Dial(connectionString)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitMQ: %w", err)
	}
	log.Println("Successfully connected to rabbitMQ")
	return conn, nil
}
