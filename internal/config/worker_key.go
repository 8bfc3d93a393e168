package config

type WorkerKeyStruct struct {
	OutboundMailQueue string
}

var WorkerKey = &WorkerKeyStruct{
	OutboundMailQueue: "outbound_mail_queue",
}
