// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package models

// Channel identifies how a ticket or update entered Zendesk. Values are
// matched case-sensitively against the catalogue below.
type Channel string

const (
	ChannelAdminSetting                           Channel = "admin_setting"
	ChannelAnswerBot                              Channel = "answer_bot"
	ChannelAnswerBotAPI                           Channel = "answer_bot_api"
	ChannelAnswerBotForAgents                     Channel = "answer_bot_for_agents"
	ChannelAnswerBotForSDK                        Channel = "answer_bot_for_sdk"
	ChannelAnswerBotForSlack                      Channel = "answer_bot_for_slack"
	ChannelAnswerBotForWebWidget                  Channel = "answer_bot_for_web_widget"
	ChannelAnyChannel                             Channel = "any_channel"
	ChannelAPIPhoneCallInbound                    Channel = "api_phone_call_inbound"
	ChannelAPIPhoneCallOutbound                   Channel = "api_phone_call_outbound"
	ChannelAPIVoicemail                           Channel = "api_voicemail"
	ChannelAppleBusinessChat                      Channel = "apple_business_chat"
	ChannelAutomaticSolutionSuggestions           Channel = "automatic_solution_suggestions"
	ChannelBatch                                  Channel = "batch"
	ChannelBlog                                   Channel = "blog"
	ChannelBusinessMessagingSlackConnect          Channel = "business_messaging_slack_connect"
	ChannelChat                                   Channel = "chat"
	ChannelChatOfflineMessage                     Channel = "chat_offline_message"
	ChannelChatTranscript                         Channel = "chat_transcript"
	ChannelChurnedAccount                         Channel = "churned_account"
	ChannelClosedTicket                           Channel = "closed_ticket"
	ChannelConnectIPM                             Channel = "connect_ipm"
	ChannelConnectMail                            Channel = "connect_mail"
	ChannelConnectSMS                             Channel = "connect_sms"
	ChannelDropbox                                Channel = "dropbox"
	ChannelFacebookMessage                        Channel = "facebook_message"
	ChannelFacebookPost                           Channel = "facebook_post"
	ChannelGetSatisfaction                        Channel = "get_satisfaction"
	ChannelGithub                                 Channel = "github"
	ChannelGoogleBusinessMessages                 Channel = "google_business_messages"
	ChannelGoogleRCS                              Channel = "google_rcs"
	ChannelGroupChange                            Channel = "group_change"
	ChannelGroupDeletion                          Channel = "group_deletion"
	ChannelHelpcenter                             Channel = "helpcenter"
	ChannelImport                                 Channel = "import"
	ChannelInstagramDM                            Channel = "instagram_dm"
	ChannelIphone                                 Channel = "iphone"
	ChannelKakaotalk                              Channel = "kakaotalk"
	ChannelLine                                   Channel = "line"
	ChannelLinkedProblem                          Channel = "linked_problem"
	ChannelLogmeinRescue                          Channel = "logmein_rescue"
	ChannelLotus                                  Channel = "lotus"
	ChannelMacroReference                         Channel = "macro_reference"
	ChannelMail                                   Channel = "mail"
	ChannelMailgun                                Channel = "mailgun"
	ChannelMerge                                  Channel = "merge"
	ChannelMessagebirdSMS                         Channel = "messagebird_sms"
	ChannelMobile                                 Channel = "mobile"
	ChannelMobileSDK                              Channel = "mobile_sdk"
	ChannelMonitorEvent                           Channel = "monitor_event"
	ChannelNativeMessaging                        Channel = "native_messaging"
	ChannelOmnichannel                            Channel = "omnichannel"
	ChannelPhoneCallInbound                       Channel = "phone_call_inbound"
	ChannelPhoneCallOutbound                      Channel = "phone_call_outbound"
	ChannelRecoveredFromSuspendedTickets          Channel = "recovered_from_suspended_tickets"
	ChannelResourcePush                           Channel = "resource_push"
	ChannelRule                                   Channel = "rule"
	ChannelRuleRevision                           Channel = "rule_revision"
	ChannelSampleInteractiveTicket                Channel = "sample_interactive_ticket"
	ChannelSampleTicket                           Channel = "sample_ticket"
	ChannelSatisfactionPrediction                 Channel = "satisfaction_prediction"
	ChannelSideConversation                       Channel = "side_conversation"
	ChannelSMS                                    Channel = "sms"
	ChannelSunshineConversationsAPI               Channel = "sunshine_conversations_api"
	ChannelSunshineConversationsFacebookMessenger Channel = "sunshine_conversations_facebook_messenger"
	ChannelSunshineConversationsTwitterDM         Channel = "sunshine_conversations_twitter_dm"
	ChannelSymphony                               Channel = "symphony"
	ChannelTelegram                               Channel = "telegram"
	ChannelTextMessage                            Channel = "text_message"
	ChannelTicketSharing                          Channel = "ticket_sharing"
	ChannelTicketTagging                          Channel = "ticket_tagging"
	ChannelTopic                                  Channel = "topic"
	ChannelTwilioSMS                              Channel = "twilio_sms"
	ChannelTwitter                                Channel = "twitter"
	ChannelTwitterDM                              Channel = "twitter_dm"
	ChannelTwitterFavorite                        Channel = "twitter_favorite"
	ChannelUserChange                             Channel = "user_change"
	ChannelUserDeletion                           Channel = "user_deletion"
	ChannelUserMerge                              Channel = "user_merge"
	ChannelViber                                  Channel = "viber"
	ChannelVoicemail                              Channel = "voicemail"
	ChannelWebForm                                Channel = "web_form"
	ChannelWebService                             Channel = "web_service"
	ChannelWebWidget                              Channel = "web_widget"
	ChannelWechat                                 Channel = "wechat"
	ChannelWhatsapp                               Channel = "whatsapp"
)

var channels = newSet(
	ChannelAdminSetting,
	ChannelAnswerBot,
	ChannelAnswerBotAPI,
	ChannelAnswerBotForAgents,
	ChannelAnswerBotForSDK,
	ChannelAnswerBotForSlack,
	ChannelAnswerBotForWebWidget,
	ChannelAnyChannel,
	ChannelAPIPhoneCallInbound,
	ChannelAPIPhoneCallOutbound,
	ChannelAPIVoicemail,
	ChannelAppleBusinessChat,
	ChannelAutomaticSolutionSuggestions,
	ChannelBatch,
	ChannelBlog,
	ChannelBusinessMessagingSlackConnect,
	ChannelChat,
	ChannelChatOfflineMessage,
	ChannelChatTranscript,
	ChannelChurnedAccount,
	ChannelClosedTicket,
	ChannelConnectIPM,
	ChannelConnectMail,
	ChannelConnectSMS,
	ChannelDropbox,
	ChannelFacebookMessage,
	ChannelFacebookPost,
	ChannelGetSatisfaction,
	ChannelGithub,
	ChannelGoogleBusinessMessages,
	ChannelGoogleRCS,
	ChannelGroupChange,
	ChannelGroupDeletion,
	ChannelHelpcenter,
	ChannelImport,
	ChannelInstagramDM,
	ChannelIphone,
	ChannelKakaotalk,
	ChannelLine,
	ChannelLinkedProblem,
	ChannelLogmeinRescue,
	ChannelLotus,
	ChannelMacroReference,
	ChannelMail,
	ChannelMailgun,
	ChannelMerge,
	ChannelMessagebirdSMS,
	ChannelMobile,
	ChannelMobileSDK,
	ChannelMonitorEvent,
	ChannelNativeMessaging,
	ChannelOmnichannel,
	ChannelPhoneCallInbound,
	ChannelPhoneCallOutbound,
	ChannelRecoveredFromSuspendedTickets,
	ChannelResourcePush,
	ChannelRule,
	ChannelRuleRevision,
	ChannelSampleInteractiveTicket,
	ChannelSampleTicket,
	ChannelSatisfactionPrediction,
	ChannelSideConversation,
	ChannelSMS,
	ChannelSunshineConversationsAPI,
	ChannelSunshineConversationsFacebookMessenger,
	ChannelSunshineConversationsTwitterDM,
	ChannelSymphony,
	ChannelTelegram,
	ChannelTextMessage,
	ChannelTicketSharing,
	ChannelTicketTagging,
	ChannelTopic,
	ChannelTwilioSMS,
	ChannelTwitter,
	ChannelTwitterDM,
	ChannelTwitterFavorite,
	ChannelUserChange,
	ChannelUserDeletion,
	ChannelUserMerge,
	ChannelViber,
	ChannelVoicemail,
	ChannelWebForm,
	ChannelWebService,
	ChannelWebWidget,
	ChannelWechat,
	ChannelWhatsapp,
)

// ParseChannel accepts only exact catalogue members.
func ParseChannel(s string) (Channel, error) {
	c := Channel(s)
	if _, ok := channels[c]; !ok {
		return "", &UnknownEnumValueError{Domain: "channel", Value: s}
	}

	return c, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Channel) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, c, ParseChannel)
}
