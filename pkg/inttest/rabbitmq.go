// Package inttest provides setup functions that create a RabbitMQ container. We are using the
// management image for RabbitMQ so you can debug and interact with tests using its admin panel. Use
// a debugger, adjust timeouts waiting for a message or add a time.Sleep and find the exposed
// management port to login to the UI.
package inttest

import (
	"context"
	"fmt"
	"testing"

	"github.com/docker/go-connections/nat"
	amqpgo "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

const amqpPort = "5672"
const natAMQPPort = amqpPort + "/tcp"

// SetupRabbitMQAMQP creates a RabbitMQ with an AMQP client ready to send messages to it.
func SetupRabbitMQAMQP(t *testing.T) *AMQP {
	t.Helper()
	require := require.New(t)
	ctx := context.TODO()

	net, err := network.New(ctx)
	require.NoError(err, "failed setting up Docker network")
	t.Cleanup(func() {
		require.NoError(net.Remove(ctx), "failed to remove the Docker network")
	})

	rabbitMQContainer, err := NewRabbitMQ(ctx, WithNetwork(net.Name, "rabbitmq"))
	require.NoError(err, "failed setting up RabbitMQ")
	t.Cleanup(func() {
		require.NoError(rabbitMQContainer.Terminate(ctx), "failed to terminate RabbitMQ")
	})

	URI, err := rabbitMQContainer.AMQPURI(ctx)
	require.NoError(err, "failed to get RabbitMQ AMQP URI")
	conn, err := amqpgo.Dial(URI)
	require.NoError(err, "failed setting up AMQP connection")
	t.Cleanup(func() {
		_ = conn.Close()
	})
	channel, err := conn.Channel()
	require.NoError(err, "failed setting up AMQP channel")

	return &AMQP{
		rabbitMQContainer: rabbitMQContainer,
		conn:              conn,
		Channel:           channel,
	}
}

// AMQP allows making requests to RabbitMQ. It does so by opening a connection and channel to
// RabbitMQ via the low-level github.com/rabbitmq/amqp091-go library.
type AMQP struct {
	rabbitMQContainer *rabbitmqContainer
	conn              *amqpgo.Connection // Connection established with RabbitMQ
	Channel           *amqpgo.Channel    // Channel established with RabbitMQ
}

// URI is the AMQP URI going to RabbitMQ.
func (a *AMQP) URI(t *testing.T) string {
	t.Helper()

	URI, err := a.rabbitMQContainer.AMQPURI(context.TODO())
	require.NoError(t, err, "failed to get RabbitMQ URI")
	return URI
}

type rabbitmqContainer struct {
	testcontainers.Container
	user         string
	pw           string
	network      string
	networkAlias string
	internalPort string
}

func (rc *rabbitmqContainer) AMQPURI(ctx context.Context) (string, error) {
	ip, err := rc.Host(ctx)
	if err != nil {
		return "", err
	}
	port, err := rc.ExposedAMQPPort(ctx)
	if err != nil {
		return "", err
	}
	return amqpURI(rc.user, rc.pw, ip, port), nil
}

func (rc *rabbitmqContainer) ExposedAMQPPort(ctx context.Context) (string, error) {
	port, err := rc.MappedPort(ctx, nat.Port(natAMQPPort))
	if err != nil {
		return "", err
	}
	return port.Port(), nil
}

type rabbitMQOptions struct {
	network      string
	networkAlias string
}

type rabbitMQOption func(*rabbitMQOptions)

// WithNetwork connects the RabbitMQ container to a specific network and gives it an alias with
// which you can reach it on this network.
func WithNetwork(name, alias string) rabbitMQOption {
	return func(options *rabbitMQOptions) {
		options.network = name
		options.networkAlias = alias
	}
}

// NewRabbitMQ creates a RabbitMQ container. The container will be listening and ready to accept
// connections. Connect using default user and password guest.
func NewRabbitMQ(ctx context.Context, options ...rabbitMQOption) (*rabbitmqContainer, error) {
	opts := &rabbitMQOptions{}
	for _, o := range options {
		o(opts)
	}

	user := "guest"
	pw := "guest"
	natPortMgmt := "15672/tcp"
	req := testcontainers.ContainerRequest{
		Image: "rabbitmq:3.13-management",
		Env: map[string]string{
			"RABBITMQ_DEFAULT_USER": user,
			"RABBITMQ_DEFAULT_PASS": pw,
		},
		ExposedPorts: []string{natAMQPPort, natPortMgmt},
		WaitingFor:   wait.ForLog("Server startup complete"),
	}
	if opts.network != "" {
		req.Networks = []string{opts.network}
		req.NetworkAliases = map[string][]string{
			opts.network: {opts.networkAlias},
		}
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, err
	}

	return &rabbitmqContainer{
		Container:    container,
		network:      opts.network,
		networkAlias: opts.networkAlias,
		internalPort: amqpPort,
		user:         user,
		pw:           pw,
	}, nil
}

func amqpURI(user, pw, ip, port string) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s", user, pw, ip, port)
}
